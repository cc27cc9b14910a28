package helpers

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectID converts a string to a MongoDB ObjectID without the need of error checking
// (placed here so the database package is not required by the controllers package)
func ObjectID(ID string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(ID)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

// ObjectIDs converts a list of hex strings, silently skipping invalid ones
func ObjectIDs(IDs []string) []primitive.ObjectID {
	var oids []primitive.ObjectID

	for _, v := range IDs {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			continue
		}
		oids = append(oids, id)
	}

	return oids
}

// ChunkObjectIDs splits an id list into batches of at most size elements.
// The store limits $in-list reads to a maximum batch size, so id lists
// must be fetched in slices.
func ChunkObjectIDs(ids []primitive.ObjectID, size int) [][]primitive.ObjectID {
	if size <= 0 || len(ids) == 0 {
		return nil
	}

	var chunks [][]primitive.ObjectID
	for size < len(ids) {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	chunks = append(chunks, ids)

	return chunks
}
