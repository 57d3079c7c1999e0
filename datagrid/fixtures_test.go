package datagrid

func people() []Row {
	return []Row{
		{"name": "John", "age": 30},
		{"name": "Jane", "age": 25},
		{"name": "Bob", "age": 35},
	}
}

func peopleColumns() []Column {
	return []Column{
		{Key: "name", Title: "Name", DataIndex: "name", Sortable: true},
		{Key: "age", Title: "Age", DataIndex: "age", Sortable: true},
		{Key: "email", Title: "Email", DataIndex: "email"},
	}
}

func names(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		s, _ := r["name"].(string)
		out[i] = s
	}
	return out
}

func numberedRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{"n": i + 1}
	}
	return rows
}
