package item

import (
	"fmt"
	"strings"
)

// Column indexes the values shown by the tree view.
type Column int

const (
	ColName Column = iota
	ColActionButton
	ColWorkerTopHalf
	ColWorkerEnabled
	ColWorkerDebug
	ColWorkerUsed
	ColStatsTime
	ColStatsNumInputs
	ColStatsNumSelected
	ColStatsTotWaitIn
	ColStatsTotInputBytes
	ColStatsFirstInput
	ColStatsLastInput
	ColStatsNumGroups
	ColStatsNumOutputs
	ColStatsTotWaitOut
	ColStatsFirstOutput
	ColStatsLastOutput
	ColStatsTotOutputBytes
	ColStatsNumFiringNotifs
	ColStatsNumExtinguishedNotifs
	ColNumArcFiles
	ColNumArcBytes
	ColAllocedArcBytes
	ColStatsMinEventTime
	ColStatsMaxEventTime
	ColStatsTotCPU
	ColStatsCurrentRAM
	ColStatsMaxRAM
	ColStatsFirstStartup
	ColStatsLastStartup
	ColStatsAverageTupleSize
	ColStatsNumAverageTupleSizeSamples
	ColWorkerReportPeriod
	ColWorkerSrcPath
	ColWorkerParams
	ColNumParents
	ColNumChildren
	ColWorkerSignature
	ColWorkerBinSignature
	ColArchivedTimes

	NumColumns
)

var columnNames = [NumColumns]string{
	ColName:                            "Name",
	ColActionButton:                    "",
	ColWorkerTopHalf:                   "Top-half",
	ColWorkerEnabled:                   "Enabled",
	ColWorkerDebug:                     "Debug",
	ColWorkerUsed:                      "Used",
	ColStatsTime:                       "Stats Emission",
	ColStatsNumInputs:                  "Inputs Events",
	ColStatsNumSelected:                "Selected Events",
	ColStatsTotWaitIn:                  "Waiting for Input",
	ColStatsTotInputBytes:              "Input Bytes",
	ColStatsFirstInput:                 "First Input Reception",
	ColStatsLastInput:                  "Last Input Reception",
	ColStatsNumGroups:                  "Groups",
	ColStatsNumOutputs:                 "Output Events",
	ColStatsTotWaitOut:                 "Waiting for Output",
	ColStatsFirstOutput:                "First Output Emitted",
	ColStatsLastOutput:                 "Last Output Emitted",
	ColStatsTotOutputBytes:             "Output Bytes",
	ColStatsNumFiringNotifs:            "Firing Notifications",
	ColStatsNumExtinguishedNotifs:      "Extinguished Notification",
	ColNumArcFiles:                     "Archived Files",
	ColNumArcBytes:                     "Archived Bytes",
	ColAllocedArcBytes:                 "Allocated Archive Bytes",
	ColStatsMinEventTime:               "Min. Event Time",
	ColStatsMaxEventTime:               "Max. Event Time",
	ColStatsTotCPU:                     "Total CPU",
	ColStatsCurrentRAM:                 "Current RAM",
	ColStatsMaxRAM:                     "Max. RAM",
	ColStatsFirstStartup:               "First Startup",
	ColStatsLastStartup:                "Last Startup",
	ColStatsAverageTupleSize:           "Average Bytes per Archived Event",
	ColStatsNumAverageTupleSizeSamples: "Full Event Size Samples",
	ColWorkerReportPeriod:              "Report Period",
	ColWorkerSrcPath:                   "Source",
	ColWorkerParams:                    "Parameters",
	ColNumParents:                      "Parents",
	ColNumChildren:                     "Children",
	ColWorkerSignature:                 "Worker Signature",
	ColWorkerBinSignature:              "Binary Signature",
	ColArchivedTimes:                   "Archived Times",
}

// String returns the column header.
func (c Column) String() string {
	if c < 0 || c >= NumColumns {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	if c == ColActionButton {
		return "Action"
	}
	return columnNames[c]
}

// Header returns the text shown in the view header, empty for the action
// button column.
func (c Column) Header() string {
	if c < 0 || c >= NumColumns {
		return ""
	}
	return columnNames[c]
}

// Important reports whether the column is shown by default.
func (c Column) Important() bool {
	switch c {
	case ColName,
		ColStatsTime,
		ColStatsNumInputs,
		ColStatsNumSelected,
		ColStatsLastInput,
		ColStatsNumGroups,
		ColStatsNumOutputs,
		ColStatsTotWaitOut,
		ColStatsLastOutput,
		ColStatsNumFiringNotifs,
		ColStatsNumExtinguishedNotifs,
		ColNumArcBytes,
		ColAllocedArcBytes,
		ColStatsMaxEventTime,
		ColStatsTotCPU,
		ColStatsCurrentRAM,
		ColStatsMaxRAM,
		ColStatsLastStartup,
		ColWorkerParams:
		return true
	}
	return false
}

// Columns returns every column in index order.
func Columns() []Column {
	cols := make([]Column, NumColumns)
	for i := range cols {
		cols[i] = Column(i)
	}
	return cols
}

// ParseColumn finds a column by header, ignoring case.
func ParseColumn(s string) (Column, bool) {
	for c := range NumColumns {
		if strings.EqualFold(columnNames[c], s) && columnNames[c] != "" {
			return c, true
		}
	}
	return 0, false
}
