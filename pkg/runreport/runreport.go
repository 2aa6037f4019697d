package runreport

// Evaluation is one codec configuration's outcome on one file. ScoreDB
// holds the rendered score so exact reconstructions round-trip as "inf",
// which strconv.ParseFloat reads back as +Inf.
type Evaluation struct {
	Evaluator   string  `json:"evaluator"`
	BitrateBPS  float64 `json:"bitrate_bps"`
	ScoreDB     string  `json:"score_db"`
	Fingerprint uint16  `json:"fingerprint"`
	Failed      bool    `json:"failed,omitempty"`
	Error       string  `json:"error,omitempty"`
}

type FileResult struct {
	Filename    string       `json:"filename"`
	Evaluations []Evaluation `json:"evaluations"`
	// Load failure fields (set when the file never reached the codecs)
	Failed bool   `json:"failed,omitempty"`
	Error  string `json:"error,omitempty"`
}

type Report struct {
	Version          string       `json:"version"`
	TimestampRFC3339 string       `json:"timestamp_rfc3339"`
	DatasetDir       string       `json:"dataset_dir"`
	SampleRate       int          `json:"sample_rate"`
	WallMS           int64        `json:"wall_ms"`
	Evaluators       []string     `json:"evaluators"`
	Files            []FileResult `json:"files"`
}

// Version written by current builds.
const CurrentVersion = "1"
