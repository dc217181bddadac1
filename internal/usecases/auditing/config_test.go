package auditing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adscope/ad-audit-api/internal/domain"
)

const sampleAuditYAML = `
level: campaign
windows: [YTD, last_28d]
primary_window: YTD
weights:
  ctr_threshold: 2
  budget_concentration: 1
rules:
  - type: ctr_threshold
    ctr_threshold:
      min_ctr: 0.01
  - type: budget_concentration
    budget_concentration:
      top_n: 3
      max_share: 0.7
  - type: pacing_vs_target
    pacing_vs_target:
      target_spend_by_window:
        YTD: 50000
      tolerance: 0.1
      tol_cap: 0.5
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "audit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAuditConfig(t *testing.T) {
	cfg, err := LoadAuditConfig(writeTempConfig(t, sampleAuditYAML))
	require.NoError(t, err)

	assert.Equal(t, domain.LevelCampaign, cfg.Level)
	assert.Equal(t, []string{"YTD", "last_28d"}, cfg.Windows)
	assert.Equal(t, "YTD", cfg.ResolvePrimaryWindow())
	assert.Equal(t, 2.0, cfg.Weights[domain.RuleCTRThreshold])
	require.Len(t, cfg.Rules, 3)
	require.NotNil(t, cfg.Rules[0].CTRThreshold)
	assert.Equal(t, 0.01, cfg.Rules[0].CTRThreshold.MinCTR)
}

func TestLoadAuditConfig_RejectsMalformedParams(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "negative threshold",
			yaml: `
level: campaign
windows: [YTD]
rules:
  - type: ctr_threshold
    ctr_threshold:
      min_ctr: -0.5
`,
		},
		{
			name: "missing rule params",
			yaml: `
level: campaign
windows: [YTD]
rules:
  - type: budget_concentration
`,
		},
		{
			name: "max_share out of range",
			yaml: `
level: campaign
windows: [YTD]
rules:
  - type: budget_concentration
    budget_concentration:
      top_n: 3
      max_share: 1.7
`,
		},
		{
			name: "no windows",
			yaml: `
level: campaign
windows: []
rules:
  - type: ctr_threshold
    ctr_threshold:
      min_ctr: 0.01
`,
		},
		{
			name: "unknown level",
			yaml: `
level: keyword
windows: [YTD]
rules:
  - type: ctr_threshold
    ctr_threshold:
      min_ctr: 0.01
`,
		},
		{
			name: "negative weight",
			yaml: `
level: campaign
windows: [YTD]
weights:
  ctr_threshold: -1
rules:
  - type: ctr_threshold
    ctr_threshold:
      min_ctr: 0.01
`,
		},
		{
			name: "primary window not audited",
			yaml: `
level: campaign
windows: [YTD]
primary_window: Q2
rules:
  - type: ctr_threshold
    ctr_threshold:
      min_ctr: 0.01
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAuditConfig(writeTempConfig(t, tt.yaml))
			assert.True(t, domain.IsConfigurationError(err), "expected configuration error, got %v", err)
		})
	}
}

func TestAuditConfig_BuildRules_CrossesRulesWithWindows(t *testing.T) {
	cfg, err := LoadAuditConfig(writeTempConfig(t, sampleAuditYAML))
	require.NoError(t, err)

	instances := cfg.BuildRules()

	// 2 windowed rules x 2 windows, plus pacing only where a target exists
	require.Len(t, instances, 5)

	byWindow := make(map[string]int)
	pacingWindows := make([]string, 0)
	for _, instance := range instances {
		byWindow[instance.Window]++
		assert.Equal(t, domain.LevelCampaign, instance.Level)
		if instance.Type == domain.RulePacingVsTarget {
			pacingWindows = append(pacingWindows, instance.Window)
		}
	}

	assert.Equal(t, 3, byWindow["YTD"])
	assert.Equal(t, 2, byWindow["last_28d"])
	assert.Equal(t, []string{"YTD"}, pacingWindows)
}
