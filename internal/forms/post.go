package forms

import (
	"strconv"

	"yatube/internal/models"
)

// PostForm creates and edits posts.
type PostForm struct {
	Form

	groups map[string]uint

	// Cleaned values, set once IsValid succeeds.
	Text    string
	GroupID *uint
}

// NewPostForm returns an unbound form offering groups as choices.
func NewPostForm(groups []*models.Group) *PostForm {
	choices := []Choice{{Value: "", Label: "---------"}}
	ids := make(map[string]uint, len(groups))
	for _, g := range groups {
		id := strconv.FormatUint(uint64(g.ID), 10)
		choices = append(choices, Choice{Value: id, Label: g.Title})
		ids[id] = g.ID
	}

	return &PostForm{
		Form: newForm(
			&Field{
				Name:     "text",
				Label:    "Post text",
				HelpText: "Text of the new post",
				Widget:   "textarea",
				Required: true,
			},
			&Field{
				Name:     "group",
				Label:    "Group",
				HelpText: "Group the post will belong to",
				Widget:   "select",
				Choices:  choices,
			},
		),
		groups: ids,
	}
}

// SetInitial prefills an unbound form from an existing post.
func (f *PostForm) SetInitial(post *models.Post) *PostForm {
	f.Field("text").Value = post.Text
	if post.GroupID != nil {
		f.Field("group").Value = strconv.FormatUint(uint64(*post.GroupID), 10)
	}
	return f
}

// Bind loads submitted values and validates them.
func (f *PostForm) Bind(get Getter) *PostForm {
	f.bind(get)
	f.Text, f.GroupID = "", nil

	// Text is stored as submitted; templates escape it on output.
	if text := f.Field("text"); !text.HasErrors() {
		f.Text = text.Value
	}

	if raw := f.Field("group").Value; raw != "" {
		id, ok := f.groups[raw]
		if !ok {
			f.AddError("group", msgInvalidChoice)
		} else {
			f.GroupID = &id
		}
	}
	return f
}

// IsValid reports whether the form is bound and passed validation.
func (f *PostForm) IsValid() bool {
	return f.valid()
}
