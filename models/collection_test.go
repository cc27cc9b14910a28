package models

import (
	"sync"
	"testing"

	"recipe-box/apperror"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testCollectionModel(store *memCollectionStore) CollectionModel {
	return CollectionModel{
		Store: store,
		GetRecipes: func(ids []primitive.ObjectID) ([]RecipeListItem, error) {
			return nil, nil
		},
	}
}

func TestListCollectionsCreatesDefaults(t *testing.T) {

	store := newMemCollectionStore()
	model := testCollectionModel(store)

	owner := primitive.NewObjectID()

	collections, err := model.ListCollections(owner.Hex())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(collections) != 2 {
		t.Fatalf("got %d collections, want the 2 built-in ones", len(collections))
	}
	for _, c := range collections {
		if !c.Protected {
			t.Errorf("built-in collection %q not flagged protected", c.Name)
		}
	}

	// a second call must not create duplicates
	collections, err = model.ListCollections(owner.Hex())
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if len(collections) != 2 {
		t.Errorf("got %d collections after second list, want 2", len(collections))
	}
}

func TestEnsureDefaultsConcurrent(t *testing.T) {

	store := newMemCollectionStore()
	model := testCollectionModel(store)

	owner := primitive.NewObjectID()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := model.EnsureDefaults(owner); err != nil {
				t.Errorf("ensure: %v", err)
			}
		}()
	}
	wg.Wait()

	collections, _ := store.ListByOwner(owner)
	if len(collections) != 2 {
		t.Errorf("got %d collections, want exactly 2", len(collections))
	}
}

func TestCreateCollection(t *testing.T) {

	store := newMemCollectionStore()
	model := testCollectionModel(store)

	owner := primitive.NewObjectID().Hex()

	if _, err := model.CreateCollection(owner, "   ", nil); err != ErrCollectionNameMissing {
		t.Errorf("blank name: got %v, want ErrCollectionNameMissing", err)
	}

	// protected names are checked case-insensitively
	if _, err := model.CreateCollection(owner, "fAvOrItEs", nil); err != ErrCollectionNameReserved {
		t.Errorf("reserved name: got %v, want ErrCollectionNameReserved", err)
	}
	if _, err := model.CreateCollection(owner, "saved", nil); err != ErrCollectionNameReserved {
		t.Errorf("reserved name: got %v, want ErrCollectionNameReserved", err)
	}

	r1 := primitive.NewObjectID()
	r2 := primitive.NewObjectID()
	id, err := model.CreateCollection(owner, "Weeknight Dinners", []string{r1.Hex(), r2.Hex(), r2.Hex()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := model.CreateCollection(owner, "Weeknight Dinners", nil); err != ErrCollectionNameTaken {
		t.Errorf("duplicate: got %v, want ErrCollectionNameTaken", err)
	}

	// the name index compares case-sensitively, a differently cased
	// custom name is a different collection
	if _, err := model.CreateCollection(owner, "weeknight dinners", nil); err != nil {
		t.Errorf("cased variant: got %v, want success", err)
	}

	// initial ids are deduped
	collection, _ := store.Get(mustObjectID(t, id))
	if len(collection.RecipeIDs) != 2 {
		t.Errorf("initial ids not deduped: %v", collection.RecipeIDs)
	}

	// the new collection comes back through the list path with exactly
	// the ids it was created with
	collections, err := model.ListCollections(owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	var listed *Collection
	for i := range collections {
		if collections[i].Name == "Weeknight Dinners" {
			listed = &collections[i]
		}
	}
	if listed == nil {
		t.Fatal("created collection not listed")
	}
	if len(listed.RecipeIDs) != 2 {
		t.Fatalf("listed ids: got %v, want {r1, r2}", listed.RecipeIDs)
	}
	members := map[primitive.ObjectID]bool{
		listed.RecipeIDs[0]: true,
		listed.RecipeIDs[1]: true,
	}
	if !members[r1] || !members[r2] {
		t.Errorf("listed ids: got %v, want {%v, %v}", listed.RecipeIDs, r1, r2)
	}
}

func TestRenameCollection(t *testing.T) {

	store := newMemCollectionStore()
	model := testCollectionModel(store)

	owner := primitive.NewObjectID()
	ownerHex := owner.Hex()

	if err := model.EnsureDefaults(owner); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	favorites, _ := store.FindByName(owner, FavoritesName, true)

	id, err := model.CreateCollection(ownerHex, "Soups", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// protected collections keep their name
	if err := model.RenameCollection(favorites.ID.Hex(), "Mine"); err != ErrCollectionProtected {
		t.Errorf("rename protected: got %v, want ErrCollectionProtected", err)
	}

	// renaming to a reserved name is rejected
	if err := model.RenameCollection(id, "FAVORITES"); err != ErrCollectionNameReserved {
		t.Errorf("rename to reserved: got %v, want ErrCollectionNameReserved", err)
	}

	// the unchanged name is accepted without a write
	writes := store.writes
	if err := model.RenameCollection(id, "Soups"); err != nil {
		t.Errorf("unchanged rename: %v", err)
	}
	if store.writes != writes {
		t.Errorf("unchanged rename caused a write")
	}

	if err := model.RenameCollection(id, "Stews"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	renamed, _ := store.Get(mustObjectID(t, id))
	if renamed.Name != "Stews" {
		t.Errorf("got %q, want Stews", renamed.Name)
	}
}

func TestDeleteCollection(t *testing.T) {

	store := newMemCollectionStore()
	model := testCollectionModel(store)

	owner := primitive.NewObjectID()

	if err := model.EnsureDefaults(owner); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	favorites, _ := store.FindByName(owner, FavoritesName, true)

	if err := model.DeleteCollection(favorites.ID.Hex()); err != ErrCollectionProtected {
		t.Errorf("delete protected: got %v, want ErrCollectionProtected", err)
	}

	id, _ := model.CreateCollection(owner.Hex(), "Soups", nil)
	if err := model.DeleteCollection(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(mustObjectID(t, id)); err != apperror.ErrNoData {
		t.Errorf("collection still present after delete")
	}
}

func TestMembershipIdempotence(t *testing.T) {

	store := newMemCollectionStore()
	model := testCollectionModel(store)

	owner := primitive.NewObjectID().Hex()
	id, err := model.CreateCollection(owner, "Soups", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	recipeID := primitive.NewObjectID()

	// adding twice keeps a single membership
	if err := model.AddRecipes(id, []string{recipeID.Hex()}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := model.AddRecipes(id, []string{recipeID.Hex()}); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	collection, _ := store.Get(mustObjectID(t, id))
	if len(collection.RecipeIDs) != 1 {
		t.Errorf("got %d memberships, want 1", len(collection.RecipeIDs))
	}

	// removing twice is fine too
	if err := model.RemoveRecipes(id, []string{recipeID.Hex()}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := model.RemoveRecipes(id, []string{recipeID.Hex()}); err != nil {
		t.Fatalf("re-remove: %v", err)
	}

	collection, _ = store.Get(mustObjectID(t, id))
	if len(collection.RecipeIDs) != 0 {
		t.Errorf("got %d memberships, want 0", len(collection.RecipeIDs))
	}

	// unparseable ids are dropped, an empty remainder is a no-op
	writes := store.writes
	if err := model.AddRecipes(id, []string{"garbage"}); err != nil {
		t.Errorf("garbage add: %v", err)
	}
	if store.writes != writes {
		t.Errorf("empty membership edit caused a write")
	}
}

func TestToggleFavorite(t *testing.T) {

	store := newMemCollectionStore()
	model := testCollectionModel(store)

	owner := primitive.NewObjectID()
	recipeID := primitive.NewObjectID()

	// first toggle adds (and creates the built-in collections)
	favorite, err := model.ToggleFavorite(owner.Hex(), recipeID.Hex())
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !favorite {
		t.Error("first toggle: got false, want true")
	}

	favorites, _ := store.FindByName(owner, FavoritesName, true)
	if len(favorites.RecipeIDs) != 1 {
		t.Fatalf("got %d favorites, want 1", len(favorites.RecipeIDs))
	}

	// second toggle removes
	favorite, err = model.ToggleFavorite(owner.Hex(), recipeID.Hex())
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if favorite {
		t.Error("second toggle: got true, want false")
	}

	favorites, _ = store.FindByName(owner, FavoritesName, true)
	if len(favorites.RecipeIDs) != 0 {
		t.Errorf("got %d favorites, want 0", len(favorites.RecipeIDs))
	}
}

func TestGetCollectionSkipsDangling(t *testing.T) {

	store := newMemCollectionStore()

	live := primitive.NewObjectID()
	dead := primitive.NewObjectID()

	model := CollectionModel{
		Store: store,
		GetRecipes: func(ids []primitive.ObjectID) ([]RecipeListItem, error) {
			// resolves like the recipe model: unknown ids simply drop out
			var items []RecipeListItem
			for _, id := range ids {
				if id == live {
					items = append(items, RecipeListItem{ID: id, Title: "Still here"})
				}
			}
			return items, nil
		},
	}

	owner := primitive.NewObjectID().Hex()
	id, err := model.CreateCollection(owner, "Soups", []string{live.Hex(), dead.Hex()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	detail, err := model.GetCollection(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// the raw membership keeps both ids, the resolved list only the live one
	if len(detail.RecipeIDs) != 2 {
		t.Errorf("got %d ids, want 2", len(detail.RecipeIDs))
	}
	if len(detail.Recipes) != 1 || detail.Recipes[0].Title != "Still here" {
		t.Errorf("resolved recipes: %v", detail.Recipes)
	}
}

func mustObjectID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("bad object id %q: %v", hex, err)
	}
	return id
}
