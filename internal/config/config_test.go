package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PRIMARY_APPROVER_IDS", "")
	t.Setenv("SECONDARY_APPROVER_IDS", "")
	t.Setenv("PROFILE_CACHE_TTL", "")
	t.Setenv("SERVER_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddr)
	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Contains(t, cfg.DatabaseURL, "postgres://")
	assert.Equal(t, 5*time.Minute, cfg.ProfileCacheTTL)
	assert.Empty(t, cfg.PrimaryApprovers)
	assert.Empty(t, cfg.SecondaryApprovers)
}

func TestLoadRequiresBotToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}

func TestLoadApproverLists(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("PRIMARY_APPROVER_IDS", "501")
	t.Setenv("SECONDARY_APPROVER_IDS", " 601, 602 ,,603 ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []int64{501}, cfg.PrimaryApprovers)
	assert.Equal(t, []int64{601, 602, 603}, cfg.SecondaryApprovers)
}

func TestLoadRejectsBadApproverID(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("PRIMARY_APPROVER_IDS", "501,abc")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRIMARY_APPROVER_IDS")
}

func TestParseIDList(t *testing.T) {
	out, err := parseIDList("")
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = parseIDList("1,2,3")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, out)

	_, err = parseIDList("1,x")
	assert.Error(t, err)
}
