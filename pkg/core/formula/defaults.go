package formula

type indexLookup struct {
	id      string
	name    string
	row     string
	lastCol string // last scenario column of the INDEX range
}

// indexLookups are the INDEX( $K<row>:$Q<row>, 0, LiveCase + 1 ) cells of the input sheet.
var indexLookups = []indexLookup{
	{"field_61", "Bidder share in project co", "61", "Q"},
	{"field_78", "Reference date for indexation", "78", "Q"},
	{"field_838", "Project capacity - AC", "838", "Q"},
	{"field_839", "Project capacity - DC", "839", "P"},
	{"field_2042", "Tax during EGR period funded as project cost?", "2042", "Q"},
	{"field_2125", "PV project delay rate", "2125", "Q"},
	{"field_2127", "Solar project delay rate", "2127", "Q"},
}

// LiveCaseDefaults returns the base-case column values used when a lookup field is absent.
func LiveCaseDefaults() map[string]interface{} {
	return map[string]interface{}{
		"field_61":   1.0,          // bidder share
		"field_78":   "2025-01-01", // reference date
		"field_838":  1351.0,       // AC capacity, MW
		"field_839":  1622.01,      // DC capacity, MW
		"field_2042": 1.0,          // tax funding flag
		"field_2125": 0.0,
		"field_2127": 0.0,
	}
}

// LookupFields lists the ids resolved through the LiveCase lookup.
func LookupFields() []string {
	ids := make([]string, len(indexLookups))
	for i, l := range indexLookups {
		ids[i] = l.id
	}
	return ids
}
