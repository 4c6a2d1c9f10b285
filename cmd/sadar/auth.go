package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sabrisig-create/sadar/internal/api"
	"github.com/sabrisig-create/sadar/internal/config"
	"github.com/sabrisig-create/sadar/internal/session"
)

func publicClient() *api.Client {
	return api.New(config.Env().APIBaseURL, "")
}

func storeSession(s *api.Session) error {
	return sessionStore().Save(session.Session{
		Token:     s.Token,
		UserID:    s.User.ID,
		Email:     s.User.Email,
		CreatedAt: time.Now().UTC(),
	})
}

func credentialsFromArgs(args []string) (email, password string, err error) {
	if len(args) > 0 {
		email = args[0]
	} else {
		email, err = promptLine("Email: ")
		if err != nil {
			return "", "", err
		}
	}
	password, err = promptPassword("Password: ")
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

func signupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signup [email]",
		Short: "Create a new account",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			email, password, err := credentialsFromArgs(args)
			if err != nil {
				exitOnError(err)
			}

			s, err := publicClient().Signup(cmd.Context(), email, password)
			if err != nil {
				exitOnError(err)
			}
			if err := storeSession(s); err != nil {
				exitOnError(err)
			}
			fmt.Printf("Account creato per %s\n", s.User.Email)
		},
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in to an existing account",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			email, password, err := credentialsFromArgs(args)
			if err != nil {
				exitOnError(err)
			}

			s, err := publicClient().Signin(cmd.Context(), email, password)
			if err != nil {
				exitOnError(err)
			}
			if err := storeSession(s); err != nil {
				exitOnError(err)
			}
			fmt.Printf("Accesso effettuato come %s\n", s.User.Email)
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			store := sessionStore()
			if sess, err := store.Load(); err == nil {
				// Best effort; the local session is cleared regardless.
				client := api.New(config.Env().APIBaseURL, sess.Token)
				if err := client.Signout(cmd.Context()); err != nil {
					log.Warn("signout_remote_failed", nil, err)
				}
			}
			if err := store.Clear(); err != nil {
				exitOnError(err)
			}
			fmt.Println("Sessione terminata")
		},
	}
}

func resetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password [email]",
		Short: "Request a password reset",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var email string
			var err error
			if len(args) > 0 {
				email = args[0]
			} else {
				email, err = promptLine("Email: ")
				if err != nil {
					exitOnError(err)
				}
			}

			if err := publicClient().ResetPassword(cmd.Context(), email); err != nil {
				exitOnError(err)
			}
			fmt.Println("Se l'account esiste, riceverai le istruzioni per il reset")
		},
	}
}

func updatePasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update-password",
		Short: "Change the password of the signed-in account",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, client := requireSession()

			password, err := promptPassword("Nuova password: ")
			if err != nil {
				exitOnError(err)
			}
			confirm, err := promptPassword("Conferma password: ")
			if err != nil {
				exitOnError(err)
			}
			if password != confirm {
				exitOnError(fmt.Errorf("le password non coincidono"))
			}

			if err := client.UpdatePassword(cmd.Context(), password); err != nil {
				exitOnError(err)
			}
			fmt.Println("Password aggiornata")
		},
	}
}
