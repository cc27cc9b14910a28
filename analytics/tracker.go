package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"recipe-box/client"
	"recipe-box/database"
	"recipe-box/helpers"

	"github.com/go-redis/redis/v8"
	influxdb2 "github.com/influxdata/influxdb-client-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Tracker collects visit and search events in the analytics cache (influxDB)
// and periodically replicates aggregated counts into the database (MongoDB)
type Tracker struct {
	influxClient influxdb2.Client
	redisClient  *redis.Client
	VisitorAPI   database.InfluxAPI
	SearchAPI    database.InfluxAPI
	collections  map[string]*mongo.Collection
	GetUserName  func(ID string) (string, error)
	Requests     *client.Registry
}

// VisitCache is the list item in the hot cache (redis)
type VisitCache struct {
	VisitTS time.Time `json:"visitTS"`
	UserID  string    `json:"userID"`
}

// Visit is the list item sent to the client
type Visit struct {
	VisitTS  time.Time `json:"visitTS"`
	ObjectID string    `json:"-"`
	UserID   string    `json:"userID"`
	UserName string    `json:"userName"`
}

// SetConnections initializes the instance
func (t *Tracker) SetConnections(influxClient *influxdb2.Client, redisClient *redis.Client, mongoCollections map[string]*mongo.Collection) {
	t.influxClient = *influxClient
	t.redisClient = redisClient
	t.collections = mongoCollections
}

// SaveVisitor stores event data in the analytics cache
func (t *Tracker) SaveVisitor(domain string, profileID string, userID string) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return
	}

	// include object type (domain) in key name,
	// so this information can be "wrapped" in aggregation queries (eg. "select profileID, count")

	// the risk of high series cardinality is accepted, since profiles is what we're interested in
	// https://docs.influxdata.com/influxdb/v2.0/write-data/best-practices/resolve-high-cardinality/

	p := influxdb2.NewPoint(
		"visit",
		map[string]string{"profileId": domain + "_" + profileID},
		map[string]interface{}{"userId": userID},
		time.Now())

	err := t.VisitorAPI.WriteAPI.WritePoint(context.Background(), p)
	if err != nil {
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
	}

	t.cacheVisitor(domain, profileID, userID)
}

// cacheVisitor maintains a hot list of a profile's most recent visitors (redis)
// so the profile page does not need to query the analytics store on every hit
func (t *Tracker) cacheVisitor(domain string, profileID string, userID string) {

	ctx := context.Background()
	key := "visitors_" + domain + "_" + profileID

	b, err := json.Marshal(VisitCache{
		VisitTS: time.Now(),
		UserID:  userID,
	})
	if err != nil {
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
		return
	}

	pipe := t.redisClient.TxPipeline()
	pipe.LPush(ctx, key, b)
	pipe.LTrim(ctx, key, 0, 9)
	pipe.Expire(ctx, key, 30*24*time.Hour)

	if _, err := pipe.Exec(ctx); err != nil {
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
	}
}

// SaveSearchRecipe stores event data in the analytics cache.
// Logger functions are typed due to different fields/logic of the domains
func (t *Tracker) SaveSearchRecipe(search *RecipeSearchEvent, recipeIDs []string) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return
	}

	// do not log any empty search (usually the landing page)
	if search.SearchTerm == "" {
		return
	}

	ts := time.Now()

	for _, id := range recipeIDs {
		fields := map[string]interface{}{
			"domain":   "recipe",
			"cuisine":  search.CuisineCode,
			"category": search.CategoryCode,
			"term":     search.SearchTerm}

		p := influxdb2.NewPoint(
			"search", // measurement
			map[string]string{"recipeId": id}, // tag
			fields,
			ts)

		err := t.SearchAPI.WriteAPI.WritePoint(context.Background(), p)
		if err != nil {
			fmt.Println(helpers.WrapError(err, helpers.FuncName()))
		}
	}
}

// RecipeSearchEvent is used to pass generic search parameters to the logger
type RecipeSearchEvent struct {
	SearchTerm   string
	CuisineCode  int32
	CategoryCode int32
}

// GetVisits counts the number of visits of a profile.
// The value is "live" - meaning it's read from the analytics cache (influxDB)
// which is set to a maximum period (TTL) of 30 days.
// Creators and admins may receive the total counts which is added by the MongoDB
// information (different, protected endpoint)
func (t *Tracker) GetVisits(domain string, profileID string, startDT time.Time) (int64, error) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return -1, nil
	}

	flux := `from(bucket: "%s")
		|> range(start: %s)
		|> filter(fn: (r) => r["_measurement"] == "visit" and r["profileId"] == "%s")
		|> count()
		|> yield(name: "count")`

	id := domain + "_" + profileID
	flux = fmt.Sprintf(
		flux,
		os.Getenv("ANALYTICS_VISITORS_BUCKET"),
		startDT.Format(time.RFC3339),
		id)

	result, err := t.VisitorAPI.QueryAPI.Query(context.Background(), flux)
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}

	// just 1 record
	var res interface{}
	for result.Next() {
		res = result.Record().Value()
	}

	var cnt int64 = 0
	if res != nil {
		cnt = res.(int64)
	}

	return cnt, nil
}

// ListVisitors returns the 10 most recent visitors of a profile
// (only the last visit per user)
func (t *Tracker) ListVisitors(domain string, profileID string, startDT time.Time) ([]Visit, error) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return nil, nil
	}

	// serve from the hot cache when possible
	if visits := t.cachedVisitors(domain, profileID, startDT); visits != nil {
		return visits, nil
	}

	flux := `import "strings"
		from(bucket: "%s")
		|> range(start: %s)
		|> filter(fn: (r) => r["_measurement"] == "visit" and strings.containsStr(substr: "%s", v: r.profileId))
		|> group(columns: ["_value"], mode:"by")
		|> max(column: "_time")
		|> sort(columns: ["_time"], desc: true)
		|> limit(n:10, offset: 0)`

	flux = fmt.Sprintf(
		flux,
		os.Getenv("ANALYTICS_VISITORS_BUCKET"),
		startDT.Format(time.RFC3339), // 2021-04-01T00:00:00Z
		profileID)

	result, err := t.VisitorAPI.QueryAPI.Query(context.Background(), flux)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var visit Visit
	var visits []Visit
	for result.Next() {
		visit.VisitTS = result.Record().Time()
		visit.ObjectID = profileID
		if result.Record().Value() == nil {
			visit.UserID = ""
			visit.UserName = ""
		} else {
			visit.UserID = result.Record().Value().(string)
			visit.UserName, _ = t.GetUserName(visit.UserID)
		}

		visits = append(visits, visit)
	}

	// the flux query is sorted correctly, the slice however comes back unordered
	sort.Slice(visits, func(i, j int) bool {
		return visits[j].VisitTS.Before(visits[i].VisitTS)
	})

	return visits, nil
}

// cachedVisitors reads the hot list (redis); nil means cache miss
func (t *Tracker) cachedVisitors(domain string, profileID string, startDT time.Time) []Visit {

	ctx := context.Background()
	key := "visitors_" + domain + "_" + profileID

	items, err := t.redisClient.LRange(ctx, key, 0, 9).Result()
	if err != nil || len(items) == 0 {
		return nil
	}

	var cached VisitCache
	var visit Visit
	var visits []Visit
	seen := make(map[string]bool)
	for _, item := range items {
		if err := json.Unmarshal([]byte(item), &cached); err != nil {
			fmt.Println(helpers.WrapError(err, helpers.FuncName()))
			return nil
		}
		// list is newest-first, keep only the last visit per user
		if cached.VisitTS.Before(startDT) || seen[cached.UserID] {
			continue
		}
		seen[cached.UserID] = true

		visit.VisitTS = cached.VisitTS
		visit.ObjectID = profileID
		visit.UserID = cached.UserID
		visit.UserName, _ = t.GetUserName(cached.UserID)

		visits = append(visits, visit)
	}

	return visits
}

// Replicate moves the visits from the cache (InfluxDB) into the database (Mongo)
// usually called by a GO-routine that runs in a ticker
func (t *Tracker) Replicate() {

	ctx := context.Background()

	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.Now().UTC().Location()) // just start somewhere as the minimum date
	stop := time.Now().AddDate(0, -1, 0)                                    // move everything older than one month

	// 1. get counts from influxDB
	flux := `from(bucket: "%s")
	|> range(start: %s, stop: %s)
	|> filter(fn: (r) => r["_measurement"] == "visit")
	|> count()
	|> yield(name: "count")`

	flux = fmt.Sprintf(
		flux,
		os.Getenv("ANALYTICS_VISITORS_BUCKET"),
		start.Format(time.RFC3339),
		stop.Format(time.RFC3339))

	result, err := t.VisitorAPI.QueryAPI.Query(ctx, flux)
	if err != nil {
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
		return
	}

	// 2. save counts to MongoDB (bulk)
	// create a write model for each collection
	opModels := make(map[string][]mongo.WriteModel)

	var strs []string // used to "extract" object type from key
	for result.Next() {
		// create a document and a write model for each record
		strs = strings.Split(result.Record().ValueByKey("profileId").(string), "_")

		operation := bson.D{
			{Key: "$inc", Value: bson.D{
				{Key: "metaInfo.visits", Value: result.Record().Value()}, // value of the projection function (count)
			}},
		}

		opModel := mongo.NewUpdateOneModel()
		opModel.SetFilter(bson.D{{Key: "_id", Value: helpers.ObjectID(strs[1])}}).SetUpdate(operation)

		// map the object types (domains) from influxDB onto mongoDB collections
		switch strs[0] {
		case "user":
			opModels["users"] = append(opModels["users"], opModel)
		case "recipe":
			opModels["recipes"] = append(opModels["recipes"], opModel)
		default:
			fmt.Println("ERROR: repl not correctly implemented")
		}
	}

	// len returns int, mongoDB's matchCount int64
	// to avoid all the conversions, two variables
	// are used for actually the same thing
	var i int = 0
	for _, v := range opModels {
		i += len(v)
	}

	// abort if no data to process
	if i == 0 {
		fmt.Printf("%v: %v profile's visit(s) replicated.\n", time.Now().Format(time.RFC3339), 0)
		return
	}

	opts := options.BulkWrite().SetOrdered(false)

	var cnt int64 = 0 // total replicated profile's visits

	// process each collection's write models (= update operations)
	for k, v := range opModels {
		if v != nil {
			res, err := t.collections[k].BulkWrite(ctx, v, opts)
			if err != nil {
				fmt.Println(helpers.WrapError(err, helpers.FuncName()))
				continue
			}
			cnt += res.MatchedCount
		}
	}

	fmt.Printf("%v: %v profile's visit(s) replicated.\n", time.Now().Format(time.RFC3339), cnt)
}
