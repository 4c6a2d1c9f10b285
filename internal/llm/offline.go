package llm

import "context"

// offlineResponse is returned when no API key is configured. It keeps the
// fixed 3-2-1 structure so the rest of the flow behaves identically.
const offlineResponse = `TRE CONTRO-IPOTESI
1. Considera se l'affetto che hai provato potrebbe riflettere lo stato emotivo inespresso del paziente, comunicato in modo non verbale, piuttosto che una tua risposta indipendente
2. Il momento potrebbe segnalare un punto di transizione in cui il paziente sta testando il confine terapeutico o la sicurezza della relazione, piuttosto che esprimere il contenuto che hai inizialmente identificato
3. La tua ipotesi potrebbe essere influenzata da assunti teorici: cosa emergerebbe se sospendessi temporaneamente il tuo quadro di riferimento attuale?

DUE RISCHI CLINICI
- Confermare prematuramente la tua ipotesi iniziale potrebbe precludere l'esplorazione di dinamiche relazionali ancora emergenti e non ancora visibili
- Mantenere questa lettura potrebbe inavvertitamente ricreare un pattern relazionale che il paziente sperimenta fuori dalla terapia, lasciandolo inesaminato

UN POSSIBILE PASSO SUCCESSIVO
- Nella prossima sessione, osserva se la tua risposta affettiva cambia quando adotti una postura di deliberato non-sapere sul significato di questo momento

---
*Nota: Configura OPENAI_API_KEY per riflessioni SADAR potenziate dall'IA.*`

// Offline is used when no chat backend is configured. It returns a fixed
// decentering scaffold regardless of input.
type Offline struct{}

func (Offline) Generate(ctx context.Context, system, user string) (string, error) {
	return offlineResponse, nil
}

var _ Generator = Offline{}
