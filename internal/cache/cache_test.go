package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/typegen/internal/apperr"
	"github.com/starford/typegen/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "typegen-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func run(id string, finished time.Time) models.Run {
	return models.Run{
		ID:          id,
		Fingerprint: "fp-" + id,
		StartedAt:   finished.Add(-time.Second),
		FinishedAt:  finished,
		Artifacts:   2,
		Files:       5,
		Written:     5,
		Contracts:   2,
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"runs", "artifacts", "outputs", "contracts"} {
		var count int
		err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count)
		assert.NoError(t, err, "table %s missing", table)
	}
}

func TestLatestRun_Empty(t *testing.T) {
	db := testDB(t)
	_, err := db.LatestRun()
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSaveRun_ReplacesPreviousState(t *testing.T) {
	db := testDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	first := run("r1", now)
	err := db.SaveRun(first,
		[]models.ArtifactRecord{
			{Path: "Counter.json", Kind: "combined", Contract: "Counter", Checksum: "a1", UpdatedAt: now},
			{Path: "IBase.abi", Kind: "interface", Contract: "IBase", Checksum: "b1", UpdatedAt: now},
		},
		map[string]string{"Counter.d.ts": "c1", "IBase.d.ts": "c2"},
		[]models.Contract{
			{Name: "Counter", State: models.StateComplete, Typings: "Counter.d.ts", Factory: "factories/Counter__factory.ts"},
			{Name: "IBase", State: models.StateAbstractComplete, Typings: "IBase.d.ts", Factory: "factories/IBase__factory.ts"},
		})
	require.NoError(t, err)

	contracts, err := db.ListContracts()
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.Equal(t, "Counter", contracts[0].Name)
	assert.Equal(t, models.StateAbstractComplete, contracts[1].State)
	assert.Equal(t, "r1", contracts[0].RunID)

	second := run("r2", now.Add(time.Minute))
	second.Forced = true
	err = db.SaveRun(second,
		[]models.ArtifactRecord{{Path: "Counter.json", Kind: "combined", Contract: "Counter", Checksum: "a2", UpdatedAt: now}},
		map[string]string{"Counter.d.ts": "c3"},
		[]models.Contract{{Name: "Counter", State: models.StateComplete, Typings: "Counter.d.ts"}})
	require.NoError(t, err)

	latest, err := db.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, "r2", latest.ID)
	assert.Equal(t, "fp-r2", latest.Fingerprint)
	assert.True(t, latest.Forced)
	assert.Equal(t, 5, latest.Files)
	assert.True(t, latest.FinishedAt.Equal(second.FinishedAt))

	outputs, err := db.OutputChecksums()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Counter.d.ts": "c3"}, outputs)

	artifacts, err := db.ListArtifacts()
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "a2", artifacts[0].Checksum)

	_, err = db.GetContract("IBase")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	c, err := db.GetContract("Counter")
	require.NoError(t, err)
	assert.Equal(t, "r2", c.RunID)
}

func TestSaveRun_DuplicateRunIDRollsBack(t *testing.T) {
	db := testDB(t)
	now := time.Now().UTC()
	require.NoError(t, db.SaveRun(run("r1", now), nil, map[string]string{"a.ts": "1"}, nil))

	err := db.SaveRun(run("r1", now), nil, map[string]string{"b.ts": "2"}, nil)
	require.Error(t, err)

	outputs, err := db.OutputChecksums()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.ts": "1"}, outputs, "failed save must not clear previous state")
}
