package sarif

// Rules flattens the rule lists of every extension of a tool into one slice.
// CodeQL ships its rule catalog on extensions rather than the driver, so the
// driver's own rules are not consulted here.
func Rules(tool Tool) []Rule {
	var rules []Rule
	for _, ext := range tool.Extensions {
		rules = append(rules, ext.Rules...)
	}
	return rules
}

// Artifacts returns the scanned file locations of a run.
func Artifacts(run Run) []Artifact {
	return run.Artifacts
}

// FirstRun returns run zero of a log, or a zero Run when the log is empty.
// The analysis endpoint always produces single-run documents.
func FirstRun(log *Log) Run {
	if log == nil || len(log.Runs) == 0 {
		return Run{}
	}
	return log.Runs[0]
}
