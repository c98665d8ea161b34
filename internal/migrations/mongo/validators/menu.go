package validators

import "go.mongodb.org/mongo-driver/bson"

var MenuDocumentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"title",
			"menu_title",
			"filename",
			"file_size",
			"mime_type",
			"is_active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"title": bson.M{
				"bsonType": "string",
			},
			"menu_title": bson.M{
				"bsonType": "string",
				"pattern":  `^(Food Menu|Wine Menu|Menu Item [1-9][0-9]*)$`,
			},
			"filename": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"file_size": bson.M{
				"bsonType": integer,
				"minimum":  0,
			},
			"mime_type": bson.M{
				"bsonType": "string",
				"enum":     []string{"application/pdf"},
			},
			"is_active": bson.M{
				"bsonType": "bool",
			},
		},
	},
}
