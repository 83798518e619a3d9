// Package prompt renders the instruction prompts sent to the generation model.
package prompt

import "github.com/volumio-labs/volumio-api/internal/catalog"

// Builder builds analysis and quick-reply prompts against a fixed catalog.
// Both build methods are pure: identical input yields byte-identical output.
type Builder struct {
	catalog *catalog.Catalog
}

// NewBuilder creates a prompt builder for the given catalog.
func NewBuilder(cat *catalog.Catalog) *Builder {
	return &Builder{catalog: cat}
}

// BuildAnalysisPrompt renders the full analysis instruction: the JSON-only
// header, the catalog rendering, the required output shape, and the user text
// appended verbatim at the end. The user text is inserted unescaped; prompt
// injection is an accepted boundary here.
func (b *Builder) BuildAnalysisPrompt(text string) string {
	return `Analizza il testo utente e genera una raccomandazione musicale in formato JSON.
Usa SOLO una di queste categorie con le relative caratteristiche:

` + b.catalog.Format() + `

Struttura JSON richiesta:
{
    "flow_consigliato": "nome categoria",
    "bpm_range": "range BPM",
    "caratteristiche": ["caratteristica1", "caratteristica2"],
    "esempi_genere": ["genere1", "genere2"],
    "percezione_emotiva": "breve descrizione emozione rilevata (max 10 parole)",
    "reasoning": "spiegazione tecnica della scelta (max 20 parole)"
}

Analizza ora questo input: ` + text
}

// BuildReplyPrompt renders the short free-form reply prompt. No schema
// constraint applies to the reply.
func (b *Builder) BuildReplyPrompt(text string) string {
	return "Risposta breve in italiano (max 2 righe) a: " + text
}
