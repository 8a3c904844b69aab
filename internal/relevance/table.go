package relevance

// Remote tables arrive either as a bare record sequence or wrapped in a
// container object under a conventional key. TableView is the uniform view
// the filter works on; Rewrap restores the original container shape so the
// downstream prompt formatter is unaffected.

// wrapperKeys are the container field names recognized at the fetch boundary,
// checked in order.
var wrapperKeys = []string{"projects", "rows"}

type Shape int

const (
	// ShapeArray is a bare ordered record sequence.
	ShapeArray Shape = iota
	// ShapeWrapped is a container object holding the records under Key.
	ShapeWrapped
	// ShapeOpaque is anything unrecognized; passed through untouched.
	ShapeOpaque
)

// TableView is the tagged view of a decoded table value.
type TableView struct {
	Shape   Shape
	Key     string
	Records []interface{}

	container map[string]interface{}
	raw       interface{}
}

// ParseTable sniffs the container shape of a decoded JSON value.
func ParseTable(data interface{}) TableView {
	switch v := data.(type) {
	case []interface{}:
		return TableView{Shape: ShapeArray, Records: v, raw: data}
	case map[string]interface{}:
		for _, key := range wrapperKeys {
			if arr, ok := v[key].([]interface{}); ok {
				return TableView{Shape: ShapeWrapped, Key: key, Records: arr, container: v, raw: data}
			}
		}
	}
	return TableView{Shape: ShapeOpaque, raw: data}
}

// Rewrap places the given records back into the original container shape.
// Sibling fields of a wrapped container are copied, never mutated in place.
func (t TableView) Rewrap(records []interface{}) interface{} {
	switch t.Shape {
	case ShapeArray:
		return records
	case ShapeWrapped:
		out := make(map[string]interface{}, len(t.container))
		for k, v := range t.container {
			out[k] = v
		}
		out[t.Key] = records
		return out
	default:
		return t.raw
	}
}
