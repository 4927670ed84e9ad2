package domain

// DefaultTTL is the TTL given to new rows and used when a draft leaves it unset.
const DefaultTTL = 600

// RecordOpts is the editable field set of a record. It doubles as the
// create payload and as the form buffer of a row being edited.
type RecordOpts struct {
	Name     string     `json:"name"`
	Type     RecordType `json:"type"`
	Content  string     `json:"content"`
	TTL      int        `json:"ttl"`
	Priority int        `json:"priority"`
	Comment  string     `json:"comment,omitempty"`
	Proxied  *bool      `json:"proxied,omitempty"`
}

// DefaultOpts returns the field values of a freshly added row.
func DefaultOpts() RecordOpts {
	return RecordOpts{Type: RecordTypeA, TTL: DefaultTTL}
}

// OptsFromRecord snapshots a record's editable fields.
func OptsFromRecord(r Record) RecordOpts {
	return RecordOpts{
		Name:     r.Name,
		Type:     r.Type,
		Content:  r.Content,
		TTL:      r.TTL,
		Priority: r.Priority,
		Comment:  r.Comment,
		Proxied:  r.Proxied,
	}
}

// Apply overlays the draft onto a record, keeping its id.
func (o RecordOpts) Apply(r Record) Record {
	r.Name = o.Name
	r.Type = o.Type
	r.Content = o.Content
	r.TTL = o.TTL
	r.Priority = o.Priority
	r.Comment = o.Comment
	if o.Proxied != nil {
		r.Proxied = o.Proxied
	}
	return r
}

// RecordView is one rendered row of the record table.
type RecordView struct {
	Identity Identity

	// Origin is the last known-good server representation. It is nil only
	// for a new row that has not been saved.
	Origin *Record

	// Fields is what the row displays: Origin for persisted rows, the
	// default field values for new rows.
	Fields Record

	Editing bool
	Deleted bool
	IsNew   bool
}

// ViewOf builds the view of a persisted record.
func ViewOf(r Record) RecordView {
	origin := r
	return RecordView{
		Identity: r.Identity(),
		Origin:   &origin,
		Fields:   r,
	}
}
