// Package test holds fixtures shared by esframe's tests: a small "orders" index
// with nested, repeated and never-populated fields.
package test

import (
	"strings"

	"github.com/go-sif/esframe"
)

// OrdersIndex is the name of the fixture index
const OrdersIndex = "orders"

// OrdersMapping is the body of GET orders/_mapping
const OrdersMapping = `{
  "orders": {
    "mappings": {
      "properties": {
        "customer_birth_date": {"type": "date"},
        "customer_first_name": {
          "type": "text",
          "fields": {"keyword": {"type": "keyword", "ignore_above": 256}}
        },
        "discount": {"type": "float"},
        "group": {"type": "keyword"},
        "is_member": {"type": "boolean"},
        "location": {"type": "geo_point"},
        "order_date": {"type": "date"},
        "products": {
          "properties": {
            "created_on": {"type": "date"},
            "price": {"type": "float"}
          }
        },
        "rating": {"type": "long"},
        "taxful_total_price": {"type": "half_float"},
        "user": {
          "type": "nested",
          "properties": {
            "first": {"type": "text"},
            "last": {"type": "text"}
          }
        }
      }
    }
  }
}`

// OrdersFieldCaps is the body of GET orders/_field_caps?fields=*
const OrdersFieldCaps = `{
  "indices": ["orders"],
  "fields": {
    "_id": {"_id": {"type": "_id", "metadata_field": true, "searchable": true, "aggregatable": true}},
    "_index": {"_index": {"type": "_index", "metadata_field": true, "searchable": true, "aggregatable": true}},
    "customer_birth_date": {"date": {"type": "date", "metadata_field": false, "searchable": true, "aggregatable": true}},
    "customer_first_name": {"text": {"type": "text", "metadata_field": false, "searchable": true, "aggregatable": false}},
    "customer_first_name.keyword": {"keyword": {"type": "keyword", "metadata_field": false, "searchable": true, "aggregatable": true}},
    "discount": {"float": {"type": "float", "metadata_field": false, "searchable": true, "aggregatable": true}},
    "group": {"keyword": {"type": "keyword", "metadata_field": false, "searchable": true, "aggregatable": true}},
    "is_member": {"boolean": {"type": "boolean", "metadata_field": false, "searchable": true, "aggregatable": true}},
    "location": {"geo_point": {"type": "geo_point", "metadata_field": false, "searchable": true, "aggregatable": true}},
    "order_date": {"date": {"type": "date", "metadata_field": false, "searchable": true, "aggregatable": true}},
    "products": {"object": {"type": "object", "metadata_field": false, "searchable": false, "aggregatable": false}},
    "products.created_on": {"date": {"type": "date", "metadata_field": false, "searchable": true, "aggregatable": true}},
    "products.price": {"float": {"type": "float", "metadata_field": false, "searchable": true, "aggregatable": true}},
    "rating": {"long": {"type": "long", "metadata_field": false, "searchable": true, "aggregatable": true}},
    "taxful_total_price": {"half_float": {"type": "half_float", "metadata_field": false, "searchable": true, "aggregatable": true}},
    "user": {"nested": {"type": "nested", "metadata_field": false, "searchable": false, "aggregatable": false}},
    "user.first": {"text": {"type": "text", "metadata_field": false, "searchable": true, "aggregatable": false}},
    "user.last": {"text": {"type": "text", "metadata_field": false, "searchable": true, "aggregatable": false}}
  }
}`

// OrdersDocuments holds the fixture documents, one per line. No document holds
// customer_birth_date, discount or a non-null rating.
const OrdersDocuments = `{"customer_first_name": "Eddie", "group": "amsterdam", "user": [{"first": "John", "last": "Smith"}, {"first": "Alice", "last": "White"}], "order_date": "2016-12-26T09:28:48+00:00", "taxful_total_price": 36.98, "is_member": true, "location": {"lat": 52.37, "lon": 4.89}, "products": [{"price": 11.99, "created_on": "2016-12-26T09:28:48+00:00"}, {"price": 24.99, "created_on": "2016-12-12T00:00:00+00:00"}]}
{"customer_first_name": "Mary", "group": "london", "user": {"first": "Jane", "last": "Doe"}, "order_date": "2016-12-27T12:00:00+00:00", "taxful_total_price": 53.96, "is_member": false, "location": [-0.12, 51.5], "products": {"price": 53.96, "created_on": "2016-12-20T00:00:00+00:00"}}
{"customer_first_name": "Abd", "group": "amsterdam", "order_date": 1482919200000, "taxful_total_price": 20.99, "rating": null, "products": [{"price": 20.99}]}
`

// OrdersColumns are the projectable fields of the fixture index, in Schema order
var OrdersColumns = []string{
	"customer_birth_date",
	"customer_first_name",
	"discount",
	"group",
	"is_member",
	"location",
	"order_date",
	"products.created_on",
	"products.price",
	"rating",
	"taxful_total_price",
	"user.first",
	"user.last",
}

// OrdersNumericColumns are the numeric, aggregatable fields of the fixture index
var OrdersNumericColumns = []string{"discount", "products.price", "rating", "taxful_total_price"}

// OrdersDescription returns the raw description of the fixture index
func OrdersDescription() *esframe.SchemaDescription {
	return &esframe.SchemaDescription{
		Mapping:   []byte(OrdersMapping),
		FieldCaps: []byte(OrdersFieldCaps),
	}
}

// OrdersDocumentsReader returns a reader over OrdersDocuments
func OrdersDocumentsReader() *strings.Reader {
	return strings.NewReader(OrdersDocuments)
}
