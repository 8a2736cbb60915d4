package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantlight/enrich/internal/core/domain"
)

func TestDetect_KnownPartnerFromResourceURL(t *testing.T) {
	d := NewPartnershipDetector()

	info := d.Detect(
		"Joint NIHR-MRC call for digital health partnership",
		"<html><body><p>A collaborative funding call.</p></body></html>",
		[]domain.Resource{
			{URL: "https://mrc.ukri.org/funding", Title: "MRC funding page", Kind: domain.ResourceWebpage},
		},
	)

	require.NotNil(t, info)
	assert.True(t, info.IsPartnership)
	assert.Equal(t, 0.9, info.Confidence)
	assert.Equal(t, "Medical Research Council", info.PartnerName)
	assert.Equal(t, "https://mrc.ukri.org/funding", info.PartnerURL)
	assert.Contains(t, info.Indicators, "joint")
	assert.Contains(t, info.Indicators, "partnership")
}

func TestDetect_KnownPartnerFromAnchorHref(t *testing.T) {
	d := NewPartnershipDetector()

	html := `<html><body>
		<p>This call is a partnership with a research charity.</p>
		<a href="https://www.cancerresearchuk.org/funding-for-researchers">Partner site</a>
	</body></html>`

	info := d.Detect("Cancer prevention research call", html, nil)

	require.NotNil(t, info)
	assert.Equal(t, 0.9, info.Confidence)
	assert.Equal(t, "Cancer Research UK", info.PartnerName)
	assert.Equal(t, "https://www.cancerresearchuk.org/funding-for-researchers", info.PartnerURL)
}

func TestDetect_UnresolvedPartner(t *testing.T) {
	d := NewPartnershipDetector()

	info := d.Detect(
		"Health research call",
		"<p>This is a co-funded consortium opportunity with several organisations.</p>",
		nil,
	)

	require.NotNil(t, info)
	assert.True(t, info.IsPartnership)
	assert.Equal(t, 0.6, info.Confidence)
	assert.Empty(t, info.PartnerName)
	assert.Empty(t, info.PartnerURL)
	assert.Contains(t, info.Indicators, "co-fund")
	assert.Contains(t, info.Indicators, "consortium")
}

func TestDetect_NoIndicators(t *testing.T) {
	d := NewPartnershipDetector()

	info := d.Detect(
		"Standard research grant",
		"<p>Apply for funding for your research project before the deadline.</p>",
		[]domain.Resource{{URL: "https://mrc.ukri.org/funding"}},
	)

	assert.Nil(t, info)
}

func TestDetect_IndicatorBeyondWindowIgnored(t *testing.T) {
	d := NewPartnershipDetector()

	padding := make([]byte, indicatorTextWindow+100)
	for i := range padding {
		padding[i] = 'x'
	}
	html := "<p>" + string(padding) + " partnership with MRC</p>"

	info := d.Detect("Research call", html, nil)

	assert.Nil(t, info)
}

func TestDetect_ScriptContentIgnored(t *testing.T) {
	d := NewPartnershipDetector()

	html := `<script>var mode = "partnership";</script><p>Plain funding call.</p>`

	info := d.Detect("Research call", html, nil)

	assert.Nil(t, info)
}

func TestSummaryText(t *testing.T) {
	info := &domain.PartnershipInfo{
		IsPartnership: true,
		Confidence:    0.9,
		PartnerName:   "Wellcome Trust",
		PartnerURL:    "https://wellcome.org/grant-funding",
		Indicators:    []string{"partnership", "joint"},
	}

	text := SummaryText(info)

	assert.Contains(t, text, "Wellcome Trust")
	assert.Contains(t, text, "partnership, joint")
	assert.Contains(t, text, "Partnership Funding Information")
}

func TestSummaryText_UnresolvedPartner(t *testing.T) {
	info := &domain.PartnershipInfo{
		IsPartnership: true,
		Confidence:    0.6,
		Indicators:    []string{"collaboration"},
	}

	text := SummaryText(info)

	assert.Contains(t, text, "an unidentified partner organisation")
}
