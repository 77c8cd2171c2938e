package render

// pageKeys is the exact placeholder set of the page template.
var pageKeys = []string{"AGENT_TABLE_ROWS", "AGENT_TOGGLES", "AGENT_LIST_JS", "AGENT_REGEX", "LAST_UPDATED"}

// WritePage regenerates the web page from its template and the shared
// model. The LAST_UPDATED stamp changes every run even when the metrics
// do not.
func WritePage(model Model, templatePath, outputPath string) error {
	sub, err := model.Pick(pageKeys...)
	if err != nil {
		return err
	}
	return RenderFile(templatePath, outputPath, sub)
}
