package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_HighValuePath(t *testing.T) {
	c := NewLinkClassifier()

	// Anchor text must not influence a path verdict.
	for _, linkText := range []string{"", "click here", "latest news"} {
		v := c.Classify("https://example.org/guidance/eligibility", linkText, "example.org")
		assert.True(t, v.ShouldFollow)
		assert.InDelta(t, 0.9, v.Confidence, 1e-9)
	}
}

func TestClassify_LowValuePath(t *testing.T) {
	c := NewLinkClassifier()

	for _, linkText := range []string{"", "important guidance"} {
		v := c.Classify("https://example.org/news/press-release", linkText, "example.org")
		assert.False(t, v.ShouldFollow)
		assert.InDelta(t, 0.9, v.Confidence, 1e-9)
	}
}

func TestClassify_LowValueExtensionsAndFragments(t *testing.T) {
	c := NewLinkClassifier()

	cases := []string{
		"https://example.org/logo.png",
		"https://example.org/image.svg",
		"https://example.org/report.pdf",
		"https://example.org/page#section",
		"https://example.org/login",
	}
	for _, u := range cases {
		v := c.Classify(u, "", "example.org")
		assert.False(t, v.ShouldFollow, u)
		assert.InDelta(t, 0.9, v.Confidence, 1e-9, u)
	}
}

func TestClassify_HighValueLinkText(t *testing.T) {
	c := NewLinkClassifier()

	v := c.Classify("https://other.org/page", "Read the assessment criteria", "example.org")
	assert.True(t, v.ShouldFollow)
	assert.InDelta(t, 0.7, v.Confidence, 1e-9)
	assert.Contains(t, v.Reason, "link text")
}

func TestClassify_SameDomainDefault(t *testing.T) {
	c := NewLinkClassifier()

	v := c.Classify("https://example.org/some-page", "misc", "example.org")
	assert.True(t, v.ShouldFollow)
	assert.InDelta(t, 0.4, v.Confidence, 1e-9)
}

func TestClassify_ExternalNoSignal(t *testing.T) {
	c := NewLinkClassifier()

	v := c.Classify("https://elsewhere.com/some-page", "misc", "example.org")
	assert.False(t, v.ShouldFollow)
	assert.InDelta(t, 0.6, v.Confidence, 1e-9)
}

func TestClassify_CaseInsensitivePath(t *testing.T) {
	c := NewLinkClassifier()

	v := c.Classify("https://example.org/Guidance/Applicants", "", "example.org")
	assert.True(t, v.ShouldFollow)
	assert.InDelta(t, 0.9, v.Confidence, 1e-9)
}
