package legal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicsNoFilterReturnsAll(t *testing.T) {
	topics := Topics("", "")
	assert.Len(t, topics, 10)

	topics = Topics(AllCategories, "")
	assert.Len(t, topics, 10)
}

func TestTopicsFilterByCategory(t *testing.T) {
	topics := Topics("Медициналық", "")
	require.Len(t, topics, 2)
	for _, topic := range topics {
		assert.Equal(t, "Медициналық", topic.Category)
	}
}

func TestTopicsFilterByQuery(t *testing.T) {
	topics := Topics("", "полиция")
	require.NotEmpty(t, topics)
	assert.Equal(t, "police-interaction", topics[0].ID)

	// query matches description text too
	topics = Topics("", "конституциясы")
	assert.Len(t, topics, 2)
}

func TestTopicsCategoryAndQueryCombine(t *testing.T) {
	topics := Topics("Жеке қауіпсіздік", "апат")
	require.Len(t, topics, 1)
	assert.Equal(t, "natural-disaster-actions", topics[0].ID)
}

func TestTopicsUnknownCategoryEmpty(t *testing.T) {
	assert.Empty(t, Topics("Басқа", ""))
}

func TestCategoriesDistinctWithAllFirst(t *testing.T) {
	cats := Categories()
	require.NotEmpty(t, cats)
	assert.Equal(t, AllCategories, cats[0])
	assert.ElementsMatch(t, []string{
		AllCategories,
		"Конституциялық құқықтар",
		"Медициналық",
		"Жеке қауіпсіздік",
		"Полиция",
	}, cats)
}

func TestServicesSortedByPriority(t *testing.T) {
	services := Services()
	require.Len(t, services, 4)
	assert.Equal(t, "112", services[0].Number)
	for i := 1; i < len(services); i++ {
		assert.LessOrEqual(t, services[i-1].Priority, services[i].Priority)
	}
}
