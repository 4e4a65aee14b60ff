package slackhook

import (
	"github.com/slack-go/slack"

	"github.com/jeffvincent/bug-bot/internal/category"
)

// submitCallbackID identifies report-dialog submissions on the
// interactive components endpoint.
const submitCallbackID = "submit-card"

// categoryOptions is the dialog's static select. Values must stay in sync
// with the category registry; a test cross-checks them.
var categoryOptions = []slack.DialogSelectOption{
	{Label: "Web App", Value: category.WebApp},
	{Label: "Flow Builder", Value: category.CRX},
	{Label: "SDK", Value: category.SDK},
	{Label: "NPS", Value: category.NPS},
	{Label: "Mobile", Value: category.Mobile},
	{Label: "General UX", Value: category.GeneralUX},
	{Label: "Other", Value: category.Other},
}

// reportDialog builds the issue report form. prefill seeds the title from
// the slash command text or the acted-on message.
func reportDialog(prefill string) slack.Dialog {
	title := slack.NewTextInput("title", "Title", prefill)
	title.Hint = "One-line summary of the issue"

	categorySelect := slack.NewStaticSelectDialogInput("category", "Area affected", categoryOptions)

	description := slack.NewTextAreaInput("description", "Description", "")
	description.Placeholder = "Context on the issue. Include support ticket URL, customers experiencing it, screenshots, links to recordings, etc."

	repro := slack.NewTextAreaInput("description_reproduce", "Steps to reproduce", "")
	repro.Placeholder = "Steps to reproduce"
	repro.Optional = true

	return slack.Dialog{
		CallbackID:  submitCallbackID,
		Title:       "Report an issue",
		SubmitLabel: "Submit",
		Elements: []slack.DialogElement{
			title,
			categorySelect,
			description,
			repro,
		},
	}
}
