package store

import (
	"math"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	kvTable     = "kv_entries"
	eventsTable = "llm_request_events"
)

var (
	kvColumns = []*schema.Column{
		{Name: "name", Type: field.TypeString, Size: 255},
		{Name: "value", Type: field.TypeString, Size: math.MaxInt32},
		{Name: "updated_at", Type: field.TypeTime},
	}
	kvEntries = &schema.Table{
		Name:       kvTable,
		Columns:    kvColumns,
		PrimaryKey: []*schema.Column{kvColumns[0]},
	}

	eventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString, Size: 64},
		{Name: "model", Type: field.TypeString, Size: 128},
		{Name: "purpose", Type: field.TypeString, Size: 64},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: math.MaxInt32},
		{Name: "request_body", Type: field.TypeString, Size: math.MaxInt32},
		{Name: "response_body", Type: field.TypeString, Size: math.MaxInt32},
	}
	llmRequestEvents = &schema.Table{
		Name:       eventsTable,
		Columns:    eventColumns,
		PrimaryKey: []*schema.Column{eventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{eventColumns[1]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{eventColumns[4]}},
			{Name: "llmrequestevent_success", Columns: []*schema.Column{eventColumns[8]}},
		},
	}

	tables = []*schema.Table{kvEntries, llmRequestEvents}
)
