package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"username", "password", "role"},
		"properties": bson.M{
			"username": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 50,
			},
			"password": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"role": bson.M{
				"bsonType": "string",
				"enum":     []string{"admin", "staff"},
			},
			"last_page": bson.M{
				"bsonType": "string",
			},
		},
	},
}

var SettingsValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "restaurant_name"},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
				"enum":     []string{"restaurant"},
			},
			"restaurant_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"max_party_size": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},
			"table_count": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},
			"operating_hours": bson.M{
				"bsonType": "object",
			},
		},
	},
}
