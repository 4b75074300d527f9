package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skilltrend-engine/internal/domain"
)

var exampleJobs = []domain.JobRecord{
	{Title: "Backend Developer", Description: "Looking for a Python developer with SQL and Docker experience"},
	{Title: "Platform Engineer", Description: "Python and Kubernetes required"},
}

func TestExtractor_Example(t *testing.T) {
	e := NewExtractor(DefaultVocabulary())

	first := e.Extract(exampleJobs[0])
	assert.ElementsMatch(t, []string{"python", "sql", "docker"}, first.Items())

	second := e.Extract(exampleJobs[1])
	assert.ElementsMatch(t, []string{"python", "kubernetes"}, second.Items())
}

func TestExtractor_Idempotent(t *testing.T) {
	e := NewExtractor(DefaultVocabulary())
	job := domain.JobRecord{Description: "We build Spring Boot services on AWS with CI/CD, C# and React Native."}

	a := e.Extract(job)
	b := e.Extract(job)
	require.Equal(t, a.Items(), b.Items())
	assert.True(t, a.Has("spring boot"))
	assert.True(t, a.Has("c#"))
	assert.True(t, a.Has("ci/cd"))
	assert.True(t, a.Has("react native"))
}

func TestExtractor_MissingDescription(t *testing.T) {
	e := NewExtractor(DefaultVocabulary())
	assert.Equal(t, 0, e.Extract(domain.JobRecord{Title: "Data Analyst"}).Len())
}

func TestExtractor_StripsMarkup(t *testing.T) {
	e := NewExtractor(DefaultVocabulary())
	desc := `<p>Skills: <b>Kubernetes</b></p><ul><li>Terraform</li><li>Go Lang</li></ul>`

	set := e.ExtractText(desc)
	assert.ElementsMatch(t, []string{"kubernetes", "terraform", "go lang"}, set.Items())
}

func TestSkillSet_Add(t *testing.T) {
	var s SkillSet
	assert.True(t, s.Add("  Docker "))
	assert.False(t, s.Add("docker"))
	assert.False(t, s.Add("   "))
	s.Union(NewSkillSet("aws", "Docker"))

	assert.Equal(t, []string{"docker", "aws"}, s.Items())
	assert.Equal(t, []string{"aws", "docker"}, s.Sorted())
}
