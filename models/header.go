package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Header is used as an embedded type for an object's meta-info
// no required bindings (binding:"required") since the CRUD-Operations have different meanings
type Header struct {
	CreatedTS    time.Time          `json:"createdTS" bson:"-"` // CreatedTS is read from Mongo's ObjectID
	CreatedID    primitive.ObjectID `json:"createdID" bson:"createdID"`
	CreatedName  string             `json:"createdName" bson:"createdName"`
	ModifiedTS   time.Time          `json:"modifiedTS" bson:"modifiedTS,omitempty"` // edited if present
	ModifiedID   primitive.ObjectID `json:"modifiedID" bson:"modifiedID,omitempty"`
	ModifiedName string             `json:"modifiedName" bson:"modifiedName,omitempty"`
	TouchedTS    time.Time          `json:"touchedTS" bson:"touchedTS"` // de-norm of many sources (ratings, edits)
	RecVer       int64              `json:"recVer" bson:"recVer"`       // optimistic locking (update, delete, rating RMW) - starts with 1
	Visits       int64              `json:"visits" bson:"visits"`       // total amount replicated from analytics store
}
