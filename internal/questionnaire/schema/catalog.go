package schema

type Entry struct {
	Question     LocalizedQuestion
	SectionTitle string
}

// Find scans the sections in order and returns the first question with the
// given id together with the title of the section that owns it.
func Find(s LocalizedSchema, questionID string) (Entry, bool) {
	for _, section := range s.Sections {
		for _, q := range section.Questions {
			if q.ID == questionID {
				return Entry{Question: q, SectionTitle: section.Title}, true
			}
		}
	}
	return Entry{}, false
}

// QuestionIDs lists every question id in schema order.
func QuestionIDs(s LocalizedSchema) []string {
	var ids []string
	for _, section := range s.Sections {
		for _, q := range section.Questions {
			ids = append(ids, q.ID)
		}
	}
	return ids
}
