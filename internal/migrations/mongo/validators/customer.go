package validators

import "go.mongodb.org/mongo-driver/bson"

var CustomerValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "email", "visits", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"name": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},
			"email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},
			"phone": bson.M{
				"bsonType":  "string",
				"maxLength": 32,
			},
			"visits": bson.M{
				"bsonType": integer,
				"minimum":  0,
			},
			"last_visit": bson.M{
				"bsonType": "date",
			},
		},
	},
}
