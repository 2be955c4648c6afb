package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/mariodelcid/POS-Chillers/internal/models"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "migrate", "seed", "rules"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	seedCmd, _, err := cmd.Find([]string{"seed"})
	require.NoError(t, err)
	reset := seedCmd.Flags().Lookup("reset")
	require.NotNil(t, reset)
	assert.Equal(t, "false", reset.DefValue)
}

func TestRulesCommand(t *testing.T) {
	t.Setenv("PACKAGING_RULES_PATH", "")
	g := goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden"))

	g.Assert(t, "rules_builtin", []byte(execute(t, "rules")))
	g.Assert(t, "rules_file", []byte(execute(t, "rules", "--file", "testdata/custom_rules.yaml")))
}

func TestRulesCommand_FromEnv(t *testing.T) {
	t.Setenv("PACKAGING_RULES_PATH", "testdata/custom_rules.yaml")
	out := execute(t, "rules")
	assert.Contains(t, out, "Crepas -> default + 2 x papel")
}

func TestSeedCommand(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "seed.db")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", dsn)

	out := execute(t, "seed", "--reset")
	assert.Contains(t, out, "seeded 14 packaging materials")

	out = execute(t, "seed")
	assert.Contains(t, out, "items")

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	var n int64
	require.NoError(t, db.Model(&models.PackagingMaterial{}).Count(&n).Error)
	assert.Equal(t, int64(14), n)
}

func TestMigrateCommand(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", filepath.Join(t.TempDir(), "m.db"))

	assert.Equal(t, "schema up to date\n", execute(t, "migrate"))
}
