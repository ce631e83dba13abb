package constant

// Stage tags a conversation snapshot.
type Stage string

const (
	StageInit              Stage = "init"
	StageSoftwareQuestions Stage = "software_questions"
	StageNewRequisites     Stage = "new_requisites"
	StageAnalyzeRequisites Stage = "analyze_requisites"
	StageStall             Stage = "stall"
)

var Stages = []Stage{
	StageInit,
	StageSoftwareQuestions,
	StageNewRequisites,
	StageAnalyzeRequisites,
	StageStall,
}

func (s Stage) Valid() bool {
	for _, st := range Stages {
		if st == s {
			return true
		}
	}
	return false
}

func (s Stage) String() string { return string(s) }

const (
	SenderUser = "user"
	SenderAI   = "ai"
)

const AnalyzeMode = "analyze"
