package db

import (
	"context"
	"testing"
	"time"

	"commentary-check/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport(runID string, at time.Time, findings ...model.Finding) *model.QualityReport {
	return &model.QualityReport{
		RunID:               runID,
		GeneratedAt:         at,
		Preset:              "strict",
		TotalRecordsScanned: 4,
		CleanRecords:        1,
		FlaggedRecords:      3,
		Findings:            findings,
	}
}

func testFinding(base string, cat model.Category) model.Finding {
	return model.Finding{
		ArticleID:   model.ArticleID{Category: "civil", Law: "minpou", Base: base},
		Rule:        "rule",
		Severity:    model.SeverityMedium,
		Category:    cat,
		Description: "説明",
		Location:    model.FieldStylizedCommentary,
	}
}

func TestHistoryStore(t *testing.T) {
	conn, err := OpenDuckDB("")
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	store := NewHistoryStore(conn)
	assert.Equal(t, "duckdb", store.Name())

	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, testReport("run-1", first,
		testFinding("1", model.CategoryLength),
	)))
	require.NoError(t, store.Save(ctx, testReport("run-2", first.Add(time.Hour),
		testFinding("1", model.CategoryLength),
		testFinding("2", model.CategoryCommercial),
		testFinding("3", model.CategoryCommercial),
	)))

	runs, err := store.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Equal(t, 3, runs[0].FindingCount)
	assert.InDelta(t, 25.0, runs[0].PassRate, 0.001)
	assert.True(t, first.Add(time.Hour).Equal(runs[0].GeneratedAt))

	runs, err = store.RecentRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	count, err := store.FindingCount(ctx, "run-2")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	counts, err := store.CountByCategory(ctx, "run-2")
	require.NoError(t, err)
	assert.Equal(t, []CategoryCount{
		{Category: string(model.CategoryCommercial), Count: 2},
		{Category: string(model.CategoryLength), Count: 1},
	}, counts)
}

func TestHistoryStore_DuplicateRunIsRejected(t *testing.T) {
	conn, err := OpenDuckDB("")
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	store := NewHistoryStore(conn)
	r := testReport("dup", time.Now().UTC(), testFinding("1", model.CategoryLength))
	require.NoError(t, store.Save(ctx, r))
	assert.Error(t, store.Save(ctx, r))

	// 失败的事务不留下问题明细
	count, err := store.FindingCount(ctx, "dup")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestHistoryStore_NilConnection(t *testing.T) {
	store := NewHistoryStore(nil)
	assert.Error(t, store.Save(context.Background(), testReport("x", time.Now())))
}

func TestFindingPublisher_NilConnection(t *testing.T) {
	p := NewFindingPublisher(nil, 0)
	assert.Equal(t, "mysql", p.Name())
	assert.Equal(t, 100, p.batchSize)
	assert.Error(t, p.Save(context.Background(), testReport("x", time.Now())))
	_, err := p.CountByRun(context.Background(), "x")
	assert.Error(t, err)
}
