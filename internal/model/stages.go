package model

// Job progress stages (execution state). The sequence below is the intended
// order, but stage updates are not required to follow it: any stage can be set
// at any time, matching how field staff actually report.
const (
	StageAccepted  = "accepted"
	StageArrived   = "arrived"
	StageStarted   = "started"
	StageCompleted = "completed"
	StageClosed    = "closed"
)

// JobProgressStages lists the five stages in intended order.
var JobProgressStages = []string{
	StageAccepted,
	StageArrived,
	StageStarted,
	StageCompleted,
	StageClosed,
}

// ValidStage reports whether s is in the closed stage set.
func ValidStage(s string) bool {
	for _, v := range JobProgressStages {
		if v == s {
			return true
		}
	}
	return false
}

// StageDefinition is presentation metadata for one stage, consumed by UI
// callers (dashboard, chat cards).
type StageDefinition struct {
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
	NextActions []string `json:"next_actions"`
}

var stageDefinitions = map[string]StageDefinition{
	StageAccepted: {
		Label:       "รับงานแล้ว",
		Description: "ผู้ให้บริการตอบรับงานและกำลังเตรียมตัว",
		Color:       "blue",
		NextActions: []string{"แจ้งเวลาเดินทาง", "ติดต่อลูกค้า"},
	},
	StageArrived: {
		Label:       "ถึงหน้างาน",
		Description: "ผู้ให้บริการถึงสถานที่และตรวจสอบหน้างาน",
		Color:       "cyan",
		NextActions: []string{"ประเมินหน้างาน", "เริ่มทำงาน"},
	},
	StageStarted: {
		Label:       "กำลังทำงาน",
		Description: "งานอยู่ระหว่างดำเนินการ",
		Color:       "orange",
		NextActions: []string{"อัปเดตความคืบหน้า", "แจ้งเวลาโดยประมาณ"},
	},
	StageCompleted: {
		Label:       "งานเสร็จสิ้น",
		Description: "งานเสร็จแล้ว รอลูกค้าตรวจรับและให้คะแนน",
		Color:       "green",
		NextActions: []string{"ขอคะแนนรีวิว", "ปิดงาน"},
	},
	StageClosed: {
		Label:       "ปิดงาน",
		Description: "งานปิดสมบูรณ์",
		Color:       "gray",
		NextActions: []string{},
	},
}

// StageDefinitions returns the static stage metadata table keyed by stage name.
func StageDefinitions() map[string]StageDefinition {
	return stageDefinitions
}
