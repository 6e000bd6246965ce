package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safespend-dev/safespend/internal/categories"
	"github.com/safespend-dev/safespend/internal/classifier"
	"github.com/safespend-dev/safespend/internal/model"
)

func TestAddMissingCategories(t *testing.T) {
	cats := categories.NewService(categories.Defaults())
	tx := func(category string) model.TransactionAction {
		return model.TransactionAction{Category: category, Type: model.EntryExpense}
	}

	added, errs := addMissingCategories(cats, []model.Action{
		tx("Food"),
		tx("Pets"),
		tx("pets"),
		tx("   "),
		model.DebtAction{PersonName: "Sam"},
	})

	assert.Equal(t, []string{"Pets"}, added)
	require.Len(t, errs, 1, "a category that cannot be added is reported")
	assert.Contains(t, errs[0].Error(), "empty name")
	assert.True(t, cats.Exists("Pets"))
}

type echoClassifier struct{}

func (echoClassifier) Classify(ctx context.Context, utterance string, _ time.Time) ([]map[string]any, error) {
	if utterance == "fail" {
		return nil, classifier.ErrUnavailable
	}
	return []map[string]any{{"title": utterance}}, nil
}

func TestClassifyAll(t *testing.T) {
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	got, err := classifyAll(context.Background(), echoClassifier{}, []string{"a", "b", "c"}, today, 2, time.Second)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, want, got[i].source)
		assert.Equal(t, want, got[i].records[0]["title"])
	}

	_, err = classifyAll(context.Background(), echoClassifier{}, []string{"a", "fail"}, today, 0, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, classifier.ErrUnavailable))
	assert.Contains(t, err.Error(), `"fail"`)
}
