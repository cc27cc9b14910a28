package database

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

// uniqueIndexKeys returns the key sets of the unique indexes declared for
// a collection
func uniqueIndexKeys(t *testing.T, collection string) []bson.D {
	t.Helper()

	indexes, ok := storeIndexes()[collection]
	if !ok {
		t.Fatalf("no indexes declared for %q", collection)
	}

	var keys []bson.D
	for _, index := range indexes {
		if index.Options == nil || index.Options.Unique == nil || !*index.Options.Unique {
			continue
		}
		d, ok := index.Keys.(bson.D)
		if !ok {
			t.Fatalf("%q: index keys not given as bson.D", collection)
		}
		keys = append(keys, d)
	}

	return keys
}

func hasKeySet(keys []bson.D, want []string) bool {
	for _, d := range keys {
		if len(d) != len(want) {
			continue
		}
		match := true
		for i, e := range d {
			if e.Key != want[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// the find-or-create of the default collections ("Favorites" & saved) is
// only race-free with a unique index on {ownerID, name}
func TestCollectionNameIndexDeclared(t *testing.T) {

	keys := uniqueIndexKeys(t, "collections")

	if !hasKeySet(keys, []string{"ownerID", "name"}) {
		t.Errorf("unique index on {ownerID, name} not declared, got %v", keys)
	}
}

func TestMealPlanSlotIndexDeclared(t *testing.T) {

	keys := uniqueIndexKeys(t, "mealPlans")

	if !hasKeySet(keys, []string{"ownerID", "day", "slotCD"}) {
		t.Errorf("unique index on {ownerID, day, slotCD} not declared, got %v", keys)
	}
}
