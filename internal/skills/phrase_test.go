package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhraseExtractor_Extract(t *testing.T) {
	vocab := NewVocabulary(nil, []string{"experience", "Preferred Qualifications"})
	p := NewPhraseExtractor(vocab)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "multi word phrase", text: "Experience with React Native and Node.js", want: []string{"react native", "node.js"}},
		{name: "stopword phrase dropped", text: "Preferred Qualifications: none", want: nil},
		{name: "short phrases dropped", text: "Go or AI or AWS", want: []string{"aws"}},
		{name: "trailing period not kept", text: "ship it with Docker.", want: []string{"docker"}},
		{name: "double space splits phrases", text: "Python  Docker", want: []string{"python", "docker"}},
		{name: "newline splits phrases", text: "Python\nDocker", want: []string{"python", "docker"}},
		{name: "repeated phrase once", text: "Terraform then Terraform", want: []string{"terraform"}},
		{name: "lowercase text", text: "nothing capitalized here", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Extract(tt.text))
		})
	}
}

func TestPhraseExtractor_NeverReturnsStopwordsOrShortPhrases(t *testing.T) {
	vocab := DefaultVocabulary()
	p := NewPhraseExtractor(vocab)

	text := "Looking For Strong Experience. We Use Go, C#, AI And Kubernetes At Acme Inc"
	for _, phrase := range p.Extract(text) {
		assert.Greater(t, len(phrase), 2, phrase)
		assert.False(t, vocab.IsStopword(phrase), phrase)
	}
}
