package validators

import "go.mongodb.org/mongo-driver/bson"

var integer = []string{"int", "long"}

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"customer_name",
			"customer_email",
			"date",
			"time",
			"guests",
			"table_number",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"customer_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"customer_email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},

			"customer_phone": bson.M{
				"bsonType":  "string",
				"maxLength": 32,
			},

			"date": bson.M{
				"bsonType": "date",
			},

			"time": bson.M{
				"bsonType": "string",
				"pattern":  `^([01][0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9]$`,
			},

			"guests": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"table_number": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"cancelled",
					"completed",
				},
			},

			"special_requests": bson.M{
				"bsonType":  "string",
				"maxLength": 1000,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var BookingLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "expires_at"},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},
			"expires_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
