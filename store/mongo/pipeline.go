package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// revenuePipeline sums the price field over every payment in one group.
func revenuePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$price"}}},
		}}},
	}
}

// orderStatsPipeline expands menuItemIds, joins each id against the menu
// collection and groups the joined items by category. Payments store menu ids
// as hex strings, so they are converted before the lookup; ids that do not
// parse become null and match nothing.
func orderStatsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$menuItemIds"}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "menuItemObjectId", Value: bson.D{{Key: "$convert", Value: bson.D{
				{Key: "input", Value: "$menuItemIds"},
				{Key: "to", Value: "objectId"},
				{Key: "onError", Value: nil},
				{Key: "onNull", Value: nil},
			}}}},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: menuCollection},
			{Key: "localField", Value: "menuItemObjectId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "menuItem"},
		}}},
		{{Key: "$unwind", Value: "$menuItem"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$menuItem.category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$menuItem.price"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "category", Value: "$_id"},
			{Key: "count", Value: "$count"},
			{Key: "total", Value: bson.D{{Key: "$round", Value: bson.A{"$total", 2}}}},
		}}},
	}
}
