package models

import (
	"sort"
	"strings"
	"sync"
	"time"

	"recipe-box/apperror"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// in-memory store fakes used by the model tests. They mirror the
// guarantees of the MongoDB-backed implementations: the unique
// (owner, name) index, the recVer-conditioned writes and the
// set-semantics of the membership arrays.

type memRecipeStore struct {
	mu      sync.Mutex
	recipes map[primitive.ObjectID]*Recipe

	// failNextApplies makes the next n conditional rating writes lose
	// the optimistic lock, emulating an intervening writer
	failNextApplies int

	writes     int
	batchSizes []int
}

func newMemRecipeStore() *memRecipeStore {
	return &memRecipeStore{recipes: make(map[primitive.ObjectID]*Recipe)}
}

func cloneRecipe(r *Recipe) *Recipe {
	c := *r
	if r.Ratings != nil {
		c.Ratings = make(map[string]int32, len(r.Ratings))
		for k, v := range r.Ratings {
			c.Ratings[k] = v
		}
	}
	c.Ingredients = append([]string(nil), r.Ingredients...)
	c.Steps = append([]string(nil), r.Steps...)
	return &c
}

func (s *memRecipeStore) Insert(recipe *Recipe) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recipes[recipe.ID] = cloneRecipe(recipe)
	s.writes++
	return recipe.ID.Hex(), nil
}

func (s *memRecipeStore) Get(id primitive.ObjectID) (*Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, apperror.ErrNoData
	}
	return cloneRecipe(r), nil
}

func (s *memRecipeStore) GetByIDs(ids []primitive.ObjectID) ([]Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.batchSizes = append(s.batchSizes, len(ids))

	var batch []Recipe
	for _, id := range ids {
		if r, ok := s.recipes[id]; ok {
			batch = append(batch, *cloneRecipe(r))
		}
	}
	return batch, nil
}

func (s *memRecipeStore) Update(recipe *Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.recipes[recipe.ID]
	if !ok || stored.MetaInfo.RecVer != recipe.MetaInfo.RecVer {
		return apperror.ErrRecordChanged
	}

	updated := cloneRecipe(recipe)
	updated.MetaInfo.RecVer++
	s.recipes[recipe.ID] = updated
	s.writes++
	return nil
}

func (s *memRecipeStore) Delete(id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return apperror.ErrNoData
	}
	delete(s.recipes, id)
	s.writes++
	return nil
}

func (s *memRecipeStore) Search(search *RecipeSearch) ([]Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []Recipe
	for _, r := range s.recipes {
		if search.CuisineCode >= 0 && r.CuisineCode != search.CuisineCode {
			continue
		}
		if search.CategoryCode >= 0 && r.CategoryCode != search.CategoryCode {
			continue
		}
		if search.SearchTerm != "" &&
			!strings.Contains(strings.ToLower(r.Title), strings.ToLower(search.SearchTerm)) {
			continue
		}
		found = append(found, *cloneRecipe(r))
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].AverageRating > found[j].AverageRating
	})

	return found, nil
}

func (s *memRecipeStore) ApplyRatings(id primitive.ObjectID, apply func(recipe *Recipe) (bool, error)) (*Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.recipes[id]
	if !ok {
		return nil, apperror.ErrNoData
	}

	work := cloneRecipe(stored)
	changed, err := apply(work)
	if err != nil {
		return nil, err
	}
	if !changed {
		return work, nil
	}

	if s.failNextApplies > 0 {
		s.failNextApplies--
		return nil, apperror.ErrRecordChanged
	}

	work.MetaInfo.RecVer++
	work.MetaInfo.TouchedTS = time.Now()
	s.recipes[id] = cloneRecipe(work)
	s.writes++
	return work, nil
}

type memCollectionStore struct {
	mu          sync.Mutex
	collections map[primitive.ObjectID]*Collection
	writes      int
}

func newMemCollectionStore() *memCollectionStore {
	return &memCollectionStore{collections: make(map[primitive.ObjectID]*Collection)}
}

func cloneCollection(c *Collection) *Collection {
	cc := *c
	cc.RecipeIDs = append([]primitive.ObjectID(nil), c.RecipeIDs...)
	return &cc
}

// nameTaken enforces the unique (owner, name) index; callers must hold the
// lock. Comparison is case-sensitive like the index - only the protected
// names are reserved case-insensitively, and that check lives in the model.
func (s *memCollectionStore) nameTaken(owner primitive.ObjectID, name string, except primitive.ObjectID) bool {
	for _, c := range s.collections {
		if c.OwnerID == owner && c.ID != except && c.Name == name {
			return true
		}
	}
	return false
}

func (s *memCollectionStore) ListByOwner(owner primitive.ObjectID) ([]Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var list []Collection
	for _, c := range s.collections {
		if c.OwnerID == owner {
			list = append(list, *cloneCollection(c))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (s *memCollectionStore) Get(id primitive.ObjectID) (*Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[id]
	if !ok {
		return nil, apperror.ErrNoData
	}
	return cloneCollection(c), nil
}

func (s *memCollectionStore) FindByName(owner primitive.ObjectID, name string, foldCase bool) (*Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.collections {
		if c.OwnerID != owner {
			continue
		}
		if (foldCase && strings.EqualFold(c.Name, name)) || (!foldCase && c.Name == name) {
			return cloneCollection(c), nil
		}
	}
	return nil, apperror.ErrNoData
}

func (s *memCollectionStore) Insert(collection *Collection) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTaken(collection.OwnerID, collection.Name, collection.ID) {
		return "", ErrCollectionNameTaken
	}

	s.collections[collection.ID] = cloneCollection(collection)
	s.writes++
	return collection.ID.Hex(), nil
}

func (s *memCollectionStore) Rename(id primitive.ObjectID, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[id]
	if !ok {
		return apperror.ErrNoData
	}
	if s.nameTaken(c.OwnerID, newName, id) {
		return ErrCollectionNameTaken
	}

	c.Name = newName
	c.TouchedTS = time.Now()
	s.writes++
	return nil
}

func (s *memCollectionStore) Delete(id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[id]; !ok {
		return apperror.ErrNoData
	}
	delete(s.collections, id)
	s.writes++
	return nil
}

func (s *memCollectionStore) AddRecipes(id primitive.ObjectID, recipeIDs []primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[id]
	if !ok {
		return apperror.ErrNoData
	}

	for _, rid := range recipeIDs {
		present := false
		for _, v := range c.RecipeIDs {
			if v == rid {
				present = true
				break
			}
		}
		if !present {
			c.RecipeIDs = append(c.RecipeIDs, rid)
		}
	}
	c.TouchedTS = time.Now()
	s.writes++
	return nil
}

func (s *memCollectionStore) RemoveRecipes(id primitive.ObjectID, recipeIDs []primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[id]
	if !ok {
		return apperror.ErrNoData
	}

	var kept []primitive.ObjectID
	for _, v := range c.RecipeIDs {
		remove := false
		for _, rid := range recipeIDs {
			if v == rid {
				remove = true
				break
			}
		}
		if !remove {
			kept = append(kept, v)
		}
	}
	c.RecipeIDs = kept
	c.TouchedTS = time.Now()
	s.writes++
	return nil
}

type planKey struct {
	owner primitive.ObjectID
	day   string
	slot  int32
}

type memMealPlanStore struct {
	mu      sync.Mutex
	entries map[planKey]*MealPlanEntry
}

func newMemMealPlanStore() *memMealPlanStore {
	return &memMealPlanStore{entries: make(map[planKey]*MealPlanEntry)}
}

func (s *memMealPlanStore) Upsert(entry *MealPlanEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := planKey{entry.OwnerID, entry.Day, entry.SlotCode}
	if existing, ok := s.entries[key]; ok {
		entry.ID = existing.ID
	} else {
		entry.ID = primitive.NewObjectID()
	}

	stored := *entry
	s.entries[key] = &stored
	return nil
}

func (s *memMealPlanStore) Remove(owner primitive.ObjectID, day string, slotCode int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, planKey{owner, day, slotCode})
	return nil
}

func (s *memMealPlanStore) Range(owner primitive.ObjectID, fromDay string, toDay string) ([]MealPlanEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var list []MealPlanEntry
	for key, e := range s.entries {
		if key.owner == owner && key.day >= fromDay && key.day <= toDay {
			list = append(list, *e)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Day != list[j].Day {
			return list[i].Day < list[j].Day
		}
		return list[i].SlotCode < list[j].SlotCode
	})

	return list, nil
}
