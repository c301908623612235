package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"chipjam/music"
	"chipjam/synth"
)

const (
	exportQueueLen = 128
	exportFade     = 2 * time.Second
)

type exportJob struct {
	song      *music.Arrangement
	passes    int
	path      string
	soundFont string
}

var (
	exportOnce  sync.Once
	exportQueue chan exportJob

	exportStatusMu sync.Mutex
	exportStatus   string
)

func startExportWorker() {
	exportQueue = make(chan exportJob, exportQueueLen)
	go func() {
		for job := range exportQueue {
			setExportStatus("exporting " + job.song.Name)
			start := time.Now()
			n, err := runExport(job)
			if err != nil {
				logError("export %s: %v", job.song.Name, err)
				setExportStatus("export failed: " + err.Error())
				continue
			}
			logDebug("export %s took %v", job.path, time.Since(start))
			setExportStatus(fmt.Sprintf("wrote %s (%s)", filepath.Base(job.path), humanize.Bytes(uint64(n))))
		}
	}()
}

// enqueueExport queues job, dropping the oldest waiting job when full.
func enqueueExport(job exportJob) {
	exportOnce.Do(startExportWorker)
	pushExport(exportQueue, job)
}

func pushExport(q chan exportJob, job exportJob) {
	for {
		select {
		case q <- job:
			return
		default:
		}
		select {
		case <-q:
		default:
		}
	}
}

// newExportJob names the output after the song and the current time.
func newExportJob(a *music.Arrangement, s settings) exportJob {
	dir := s.ExportDir
	if dir == "" {
		dir = filepath.Join(dataDirPath, "exports")
	}
	name := fmt.Sprintf("%s-%s.wav", a.Name, time.Now().Format("20060102-150405"))
	return exportJob{song: a, passes: s.Passes, path: filepath.Join(dir, name), soundFont: s.SoundFont}
}

// runExport renders the job and writes a WAV file, returning its size.
func runExport(job exportJob) (int, error) {
	left, right, err := renderJob(job)
	if err != nil {
		return 0, err
	}
	pcm := synth.MixPCM(left, right, sampleRate, exportFade)
	var buf bytes.Buffer
	if err := synth.WriteWAV(&buf, pcm, sampleRate); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(job.path), 0755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(job.path, buf.Bytes(), 0644); err != nil {
		return 0, err
	}
	return buf.Len(), nil
}

func renderJob(job exportJob) ([]float32, []float32, error) {
	if job.soundFont == "" {
		return music.RenderArrangement(job.song, sampleRate, job.passes, runtime.NumCPU())
	}
	if err := job.song.Validate(); err != nil {
		return nil, nil, err
	}
	sf, err := synth.LoadSoundFont(job.soundFont)
	if err != nil {
		return nil, nil, err
	}
	return synth.RenderSoundFont(sf, sampleRate, job.song.Events(job.passes))
}

func setExportStatus(s string) {
	exportStatusMu.Lock()
	exportStatus = s
	exportStatusMu.Unlock()
}

func currentExportStatus() string {
	exportStatusMu.Lock()
	defer exportStatusMu.Unlock()
	return exportStatus
}
