package metadata

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type RunNumber struct {
	init   string
	stamp  string
	suffix string
}

const RunNumberPrefix string = "MRP"

func (r RunNumber) GenerateRunNumber() string {
	return r.init + "-" + r.stamp + "-" + r.suffix
}

// NewRunNumber builds a run identifier from the run timestamp plus a random
// suffix, so two runs started in the same minute never collide.
func NewRunNumber(runDate time.Time) RunNumber {
	var number RunNumber

	number.init = RunNumberPrefix
	number.stamp = runDate.Format("20060102-1504")
	number.suffix = strings.Split(uuid.NewString(), "-")[0]

	return number
}
