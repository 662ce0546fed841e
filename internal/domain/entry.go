package domain

// WordEntry is one headword variant returned by the dictionary service.
// A single query may yield several entries (homographs, etymologies).
type WordEntry struct {
	Word      string     `json:"word"`
	Phonetics []Phonetic `json:"phonetics"`
	Meanings  []Meaning  `json:"meanings"`
}

// Phonetic is a transcription of a headword, optionally with an audio clip.
type Phonetic struct {
	Text     string `json:"text"`
	AudioURL string `json:"audioUrl"`
}

// HasAudio reports whether an audio asset exists for this transcription.
func (p Phonetic) HasAudio() bool {
	return p.AudioURL != ""
}

// Meaning is one part-of-speech sense of a headword.
type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
	Synonyms     []string     `json:"synonyms,omitempty"`
	Antonyms     []string     `json:"antonyms,omitempty"`
}

// HasExamples reports whether at least one definition carries an example.
func (m Meaning) HasExamples() bool {
	for _, d := range m.Definitions {
		if d.HasExample() {
			return true
		}
	}
	return false
}

// Definition is a single definition with an optional usage example.
type Definition struct {
	Text    string  `json:"text"`
	Example *string `json:"example,omitempty"`
}

// HasExample reports whether the definition carries a non-empty example.
func (d Definition) HasExample() bool {
	return d.Example != nil && *d.Example != ""
}
