package validators

import "go.mongodb.org/mongo-driver/bson"

var TimeSlotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"slot_settings"},
		"properties": bson.M{
			"date": bson.M{
				"bsonType": []string{"string", "null"},
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},
			"slot_settings": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "bool",
				},
			},
		},
	},
}
