// services/scheduler.go
package services

import (
	"log"
	"os"
	"time"

	"inventindia-system/utils"

	"github.com/go-co-op/gocron/v2"
)

// StartExportScheduler writes a full all-time snapshot to the export
// directory once a day, and uploads it to R2 when a bucket is configured.
// Serves as the operational backup of the progress store.
func (s *AdminService) StartExportScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			snap, err := s.BuildExport(PeriodAll)
			if err != nil {
				log.Printf("[Scheduler] snapshot build failed: %v", err)
				return
			}
			data, err := EncodeSnapshot(snap)
			if err != nil {
				log.Printf("[Scheduler] snapshot encode failed: %v", err)
				return
			}

			name := SnapshotFilename(snap.ExportDate)
			path := utils.ExportPath(name)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				log.Printf("[Scheduler] snapshot write failed: %v", err)
				return
			}
			log.Printf("✅ Daily snapshot written: %s (%d users)", path, len(snap.Users))

			if utils.R2Enabled() {
				url, err := utils.UploadBytesToR2(data, "exports/"+name, "application/json")
				if err != nil {
					log.Printf("[Scheduler] snapshot upload failed: %v", err)
					return
				}
				log.Printf("✅ Daily snapshot uploaded: %s", url)
			}
		}),
	)
}
