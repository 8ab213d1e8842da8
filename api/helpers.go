package api

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/logrusorgru/aurora"
	"github.com/olekukonko/tablewriter"
)

// HandleExit terminates the process, non-zero unless every target succeeded.
func HandleExit(results []TargetResult) {

	if !HasSucceededStatus(results) {
		os.Exit(1)
	}

	os.Exit(0)
}

// RenderSummary prints the per-target overview table once the whole run has
// reached a terminal state.
func RenderSummary(results []TargetResult) {

	data := make([][]string, 0)

	pullDurationTotal := 0.0
	buildDurationTotal := 0.0
	imageSizeTotal := int64(0)
	statusTotal := GetAggregatedStatus(results)

	for _, r := range results {

		// set column values
		imageSize := ""
		pullDuration := ""
		buildDuration := fmt.Sprintf("%.0f", r.BuildDuration.Seconds())
		archive := ""

		// increment total counters
		buildDurationTotal += r.BuildDuration.Seconds()

		if r.ImageSize > 0 {
			imageSize = fmt.Sprintf("%v", r.ImageSize/1024/1024)
			imageSizeTotal += r.ImageSize
		}
		if r.PullDuration > 0 {
			pullDuration = fmt.Sprintf("%.0f", r.PullDuration.Seconds())
			pullDurationTotal += r.PullDuration.Seconds()
		}
		if r.ArchivePath != "" {
			archive = filepath.Base(r.ArchivePath)
		}

		data = append(data, []string{
			r.Target.ID,
			r.Target.Image,
			imageSize,
			pullDuration,
			buildDuration,
			archive,
			fmt.Sprintf("%v", len(r.Warnings)),
			colorizeStatus(r.Status),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Target", "Image", "Size (MB)", "Pull (s)", "Build (s)", "Archive", "Warnings", "Status"})
	table.SetFooter([]string{"", "Total", fmt.Sprintf("%v", imageSizeTotal/1024/1024), fmt.Sprintf("%.0f", pullDurationTotal), fmt.Sprintf("%.0f", buildDurationTotal), "", "", colorizeStatus(statusTotal)})
	table.SetBorder(false)
	table.AppendBulk(data)
	table.Render()
}

func colorizeStatus(status TargetStatus) string {
	switch status {
	case TargetStatusSucceeded:
		return aurora.Green(string(status)).String()
	case TargetStatusFailed:
		return aurora.Red(string(status)).String()
	}

	return aurora.Yellow(string(status)).String()
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return true, err
}
