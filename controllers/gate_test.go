package controllers

import (
	"strings"
	"testing"

	"github.com/brightstack/learnhubbackend/models"
	"github.com/stretchr/testify/assert"
)

func TestGateDocumentationLocked(t *testing.T) {
	doc := models.Documentation{
		Title:       "Advanced Generics",
		Content:     strings.Repeat("a", previewRunes+200),
		Price:       9.99,
		KeyFeatures: []string{"type sets", "constraints"},
		CodeExamples: []models.CodeExample{
			{Language: "go", Code: "func Map[T any]() {}"},
		},
		DocumentSections: []models.DocumentSection{
			{Title: "Intro", Slug: "intro", Order: 1},
		},
	}

	gated := GateDocumentation(doc, false)

	assert.Len(t, []rune(gated.Content), previewRunes+1) // preview + ellipsis
	assert.True(t, strings.HasSuffix(gated.Content, "…"))
	assert.Nil(t, gated.CodeExamples)
	// navigation and marketing fields stay visible
	assert.Equal(t, doc.KeyFeatures, gated.KeyFeatures)
	assert.Equal(t, doc.DocumentSections, gated.DocumentSections)
}

func TestGateDocumentationUnlocked(t *testing.T) {
	doc := models.Documentation{
		Content:      strings.Repeat("b", previewRunes+200),
		CodeExamples: []models.CodeExample{{Code: "fmt.Println()"}},
	}

	gated := GateDocumentation(doc, true)
	assert.Equal(t, doc.Content, gated.Content)
	assert.Equal(t, doc.CodeExamples, gated.CodeExamples)
}

func TestGateDocumentationShortContentNotTruncated(t *testing.T) {
	doc := models.Documentation{Content: "short body"}
	gated := GateDocumentation(doc, false)
	assert.Equal(t, "short body", gated.Content)
}

func TestGateCourseSection(t *testing.T) {
	locked := GateCourseSection(models.CourseSection{
		Title:    "Channels",
		Content:  "full lesson text",
		VideoUrl: "https://cdn.example.com/ch.mp4",
		Duration: 12,
		Order:    3,
	}, false)
	assert.Empty(t, locked.Content)
	assert.Empty(t, locked.VideoUrl)
	assert.Equal(t, "Channels", locked.Title)
	assert.Equal(t, 12, locked.Duration)

	free := GateCourseSection(models.CourseSection{
		Content: "intro text",
		IsFree:  true,
	}, false)
	assert.Equal(t, "intro text", free.Content)

	unlocked := GateCourseSection(models.CourseSection{Content: "paid text"}, true)
	assert.Equal(t, "paid text", unlocked.Content)
}

func TestTruncateContentRuneSafe(t *testing.T) {
	assert.Equal(t, "héllo", TruncateContent("héllo", 10))
	assert.Equal(t, "hél…", TruncateContent("héllo", 3))
}
