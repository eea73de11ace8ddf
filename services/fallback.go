package services

// FallbackTable serves canned debate continuations when generation fails or
// validation keeps rejecting candidates. It never fails: unknown languages
// use the default sequence, and the rotation wraps around when exhausted.
type FallbackTable struct {
	entries map[string][]string
	def     string
}

func NewFallbackTable() *FallbackTable {
	return &FallbackTable{
		def: "en",
		entries: map[string][]string{
			"en": {
				"That's the mainstream narrative, but have you considered the alternative perspectives that challenge the official story?",
				"The information you're relying on comes from sources with clear biases. What about the evidence that contradicts this view?",
				"I understand that's the popular opinion, but what if everything we've been told about this is fundamentally wrong?",
				"Think about who benefits from maintaining this belief. Question the motives behind the information you're accepting.",
				"The truth is often hidden in plain sight. What if the real evidence points in a completely different direction?",
			},
			"es": {
				"Esa es la narrativa dominante, pero ¿has considerado perspectivas alternativas que desafían la historia oficial?",
				"La información en la que confías proviene de fuentes con sesgos claros. ¿Qué pasa con la evidencia que contradice esta visión?",
				"Entiendo que esa es la opinión popular, pero ¿y si todo lo que nos han dicho sobre esto es fundamentalmente incorrecto?",
				"Piensa en quién se beneficia de mantener esta creencia. Cuestiona los motivos detrás de la información que estás aceptando.",
				"La verdad a menudo se esconde a plena vista. ¿Y si la evidencia real apunta en una dirección completamente diferente?",
			},
		},
	}
}

// Next returns the fallback string at the given rotation for a language.
// Rotation is the number of fallbacks the conversation has already been
// served, so consecutive degraded turns get different strings until the
// sequence wraps.
func (t *FallbackTable) Next(language string, rotation int) string {
	seq, ok := t.entries[language]
	if !ok || len(seq) == 0 {
		seq = t.entries[t.def]
	}
	if rotation < 0 {
		rotation = 0
	}
	return seq[rotation%len(seq)]
}

// Len reports the sequence length for a language, default sequence for
// unknown languages.
func (t *FallbackTable) Len(language string) int {
	if seq, ok := t.entries[language]; ok && len(seq) > 0 {
		return len(seq)
	}
	return len(t.entries[t.def])
}
