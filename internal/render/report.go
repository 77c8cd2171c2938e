package render

// reportKeys is the exact placeholder set of the markdown report template.
var reportKeys = []string{"DATA_SOURCES", "STATS_ROWS", "AVG_MERGE_RATE", "LAST_UPDATED"}

// WriteReport regenerates the markdown report from its template and the
// shared model.
func WriteReport(model Model, templatePath, outputPath string) error {
	sub, err := model.Pick(reportKeys...)
	if err != nil {
		return err
	}
	return RenderFile(templatePath, outputPath, sub)
}
