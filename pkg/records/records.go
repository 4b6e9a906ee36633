package records

// Kind describes the expected value type of a field.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindInt
	KindStringList
)

// Field is one declarative constraint on a record field. Length bounds apply
// to string fields only; Email implies KindString.
type Field struct {
	Name     string
	Required bool
	MinLen   int
	MaxLen   int
	Email    bool
	Kind     Kind
	Default  interface{}
}

// Rules declares the shape of one collection's records.
type Rules struct {
	Collection string
	Fields     []Field
}

// registry maps collection name to its rules. Collection name is the record
// name lowercased.
var registry = map[string]Rules{
	"user": {Collection: "user", Fields: []Field{
		{Name: "email", Required: true, Email: true},
		{Name: "full_name"},
		{Name: "username", MinLen: 3, MaxLen: 20},
		{Name: "avatar_url"},
		{Name: "created_at"},
	}},
	"profile": {Collection: "profile", Fields: []Field{
		{Name: "username", Required: true, MinLen: 3, MaxLen: 20},
		{Name: "full_name"},
		{Name: "gender"},
		{Name: "date_of_birth"},
		{Name: "disability_type"},
		{Name: "avatar_url"},
		{Name: "email", Email: true},
		{Name: "created_at"},
	}},
	"provider": {Collection: "provider", Fields: []Field{
		{Name: "name", Required: true},
		{Name: "specialty"},
		{Name: "rating", Kind: KindNumber},
		{Name: "location"},
		{Name: "images", Kind: KindStringList},
	}},
	"appointment": {Collection: "appointment", Fields: []Field{
		{Name: "user_id", Required: true},
		{Name: "provider_id", Required: true},
		{Name: "scheduled_for", Required: true},
		{Name: "notes"},
	}},
	"medicalrecord": {Collection: "medicalrecord", Fields: []Field{
		{Name: "user_id", Required: true},
		{Name: "provider_id"},
		{Name: "title", Required: true},
		{Name: "description"},
	}},
	"post": {Collection: "post", Fields: []Field{
		{Name: "user_id", Required: true},
		{Name: "content", Required: true},
		{Name: "images", Kind: KindStringList},
	}},
	"group": {Collection: "group", Fields: []Field{
		{Name: "name", Required: true},
		{Name: "description"},
	}},
	"program": {Collection: "program", Fields: []Field{
		{Name: "title", Required: true},
		{Name: "category"},
		{Name: "eligibility"},
	}},
	"application": {Collection: "application", Fields: []Field{
		{Name: "user_id", Required: true},
		{Name: "program_id", Required: true},
		{Name: "status", Default: "draft"},
	}},
	"product": {Collection: "product", Fields: []Field{
		{Name: "name", Required: true},
		{Name: "category"},
		{Name: "price", Kind: KindNumber},
		{Name: "vendor_id"},
	}},
	"vendor": {Collection: "vendor", Fields: []Field{
		{Name: "name", Required: true},
		{Name: "rating", Kind: KindNumber},
	}},
	"review": {Collection: "review", Fields: []Field{
		{Name: "user_id", Required: true},
		{Name: "product_id", Required: true},
		{Name: "rating", Required: true, Kind: KindInt},
		{Name: "comment"},
	}},
}

// Lookup returns the rules for a collection, if declared.
func Lookup(collName string) (Rules, bool) {
	rules, ok := registry[collName]
	return rules, ok
}

// Collections returns the names of all declared collections.
func Collections() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// ApplyDefaults fills absent fields that declare a default value.
func ApplyDefaults(collName string, doc map[string]interface{}) {
	rules, ok := registry[collName]
	if !ok {
		return
	}
	for _, field := range rules.Fields {
		if field.Default == nil {
			continue
		}
		if _, exists := doc[field.Name]; !exists {
			doc[field.Name] = field.Default
		}
	}
}
