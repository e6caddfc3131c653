package forms

// All enumerates every consultation form the studio offers. Routes and the
// pending-booking count are both driven off this list.
var All = []Definition{
	{
		Slug:       "personalized-styling",
		Label:      "Personalized Styling",
		Collection: "personalized_styling_requests",
		Fields: []Field{
			{Name: "fullName", Kind: Required},
			{Name: "email", Kind: Required},
			{Name: "mobile", Kind: Required},
			{Name: "occasion", Kind: Required},
			{Name: "preferredDate", Kind: Date},
			{Name: "stylingGoals", Kind: JSON},
			{Name: "budget", Kind: Optional},
			{Name: "city", Kind: Optional},
			{Name: "additionalNotes", Kind: Optional},
		},
		FilePrefix: "referenceImage",
		MaxFiles:   5,
	},
	{
		Slug:       "wedding-styling",
		Label:      "Wedding Styling",
		Collection: "wedding_styling_requests",
		Fields: []Field{
			{Name: "fullName", Kind: Required},
			{Name: "email", Kind: Required},
			{Name: "mobile", Kind: Required},
			{Name: "venue", Kind: Required},
			{Name: "weddingDate", Kind: Date},
			{Name: "services", Kind: JSON},
			{Name: "functionsCount", Kind: Optional},
			{Name: "budget", Kind: Optional},
			{Name: "additionalNotes", Kind: Optional},
		},
		FilePrefix: "inspirationImage",
		MaxFiles:   5,
	},
	{
		Slug:       "photoshoot-styling",
		Label:      "Photoshoot Styling",
		Collection: "photoshoot_styling_requests",
		Fields: []Field{
			{Name: "fullName", Kind: Required},
			{Name: "email", Kind: Required},
			{Name: "mobile", Kind: Required},
			{Name: "shootType", Kind: Required},
			{Name: "shootDate", Kind: Date},
			{Name: "location", Kind: Optional},
			{Name: "teamSize", Kind: Optional},
			{Name: "additionalNotes", Kind: Optional},
		},
		FilePrefix: "moodboardImage",
		MaxFiles:   5,
	},
	{
		Slug:       "corporate-styling",
		Label:      "Corporate Styling",
		Collection: "corporate_styling_requests",
		Fields: []Field{
			{Name: "companyName", Kind: Required},
			{Name: "contactPerson", Kind: Required},
			{Name: "email", Kind: Required},
			{Name: "mobile", Kind: Required},
			{Name: "sessionDate", Kind: Date},
			{Name: "teamSize", Kind: Optional},
			{Name: "industry", Kind: Optional},
			{Name: "additionalNotes", Kind: Optional},
		},
	},
	{
		Slug:       "makeup-training",
		Label:      "Makeup Training",
		Collection: "makeup_training_requests",
		Fields: []Field{
			{Name: "fullName", Kind: Required},
			{Name: "email", Kind: Required},
			{Name: "mobile", Kind: Required},
			{Name: "skillLevel", Kind: Required},
			{Name: "batchDate", Kind: Date},
			{Name: "preferredMode", Kind: Optional},
			{Name: "additionalNotes", Kind: Optional},
		},
	},
	{
		Slug:       "soft-skills-coaching",
		Label:      "Soft Skills Coaching",
		Collection: "soft_skills_requests",
		Fields: []Field{
			{Name: "fullName", Kind: Required},
			{Name: "email", Kind: Required},
			{Name: "mobile", Kind: Required},
			{Name: "focusArea", Kind: Required},
			{Name: "startDate", Kind: Date},
			{Name: "sessionsCount", Kind: Optional},
			{Name: "preferredMode", Kind: Optional},
			{Name: "additionalNotes", Kind: Optional},
		},
	},
	{
		Slug:       "consultation",
		Label:      "General Consultation",
		Collection: "consultation_requests",
		Fields: []Field{
			{Name: "fullName", Kind: Required},
			{Name: "email", Kind: Required},
			{Name: "mobile", Kind: Required},
			{Name: "consultationDate", Kind: Date},
			{Name: "serviceInterest", Kind: Optional},
			{Name: "additionalNotes", Kind: Optional},
		},
		FilePrefix: "referenceImage",
		MaxFiles:   3,
	},
	{
		Slug:       "contact",
		Label:      "Contact Message",
		Collection: "contact_messages",
		Fields: []Field{
			{Name: "fullName", Kind: Required},
			{Name: "email", Kind: Required},
			{Name: "subject", Kind: Required},
			{Name: "message", Kind: Required},
			{Name: "mobile", Kind: Optional},
		},
	},
}

// Collections lists every booking collection, in definition order.
func Collections() []string {
	names := make([]string, 0, len(All))
	for _, d := range All {
		names = append(names, d.Collection)
	}
	return names
}
