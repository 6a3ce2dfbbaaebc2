// Package monitoring serves the progress and the live statistics of running
// cache simulations over HTTP.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/rs/xid"
	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/monitoring/web"
	"github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"
	"github.com/syifan/goseth"
)

// Monitor turns a set of simulations into a server that can be watched from a
// browser.
type Monitor struct {
	portNumber      int
	logger          logrus.FieldLogger
	profileDuration time.Duration
	server          *http.Server

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	runsLock sync.Mutex
	runs     []*TrackedRun
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		logger:          logrus.StandardLogger(),
		profileDuration: time.Second,
	}
}

// WithPortNumber sets the port number of the monitor. Zero picks a random
// port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		m.logger.WithField("port", portNumber).
			Warn("port number is not allowed for the monitoring server, " +
				"using a random port instead")

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithLogger sets the logger that reports the server status.
func (m *Monitor) WithLogger(logger logrus.FieldLogger) *Monitor {
	m.logger = logger
	return m
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// TrackCache registers a simulator so that its statistics are served while
// it runs. The returned run is also a hook of the simulator.
func (m *Monitor) TrackCache(
	runID string,
	sim *cache.Simulator,
	bar *ProgressBar,
) *TrackedRun {
	run := &TrackedRun{
		id:     runID,
		config: sim.Config(),
		bar:    bar,
	}

	sim.AcceptHook(run)

	m.runsLock.Lock()
	defer m.runsLock.Unlock()

	m.runs = append(m.runs, run)

	return run
}

// Router returns the HTTP routes of the monitor.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/runs", m.listRuns)
	r.HandleFunc("/api/run/{id}", m.runDetails)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		return "", fmt.Errorf("monitor: %w", err)
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	m.server = &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.WithError(err).Error("monitoring server stopped")
		}
	}()

	m.logger.WithField("url", url).Info("monitoring simulation")

	return url, nil
}

// Stop shuts the web server down.
func (m *Monitor) Stop() error {
	if m.server == nil {
		return nil
	}

	return m.server.Close()
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	rsp := make([]progressRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		rsp = append(rsp, b.snapshot())
	}
	m.progressBarsLock.Unlock()

	m.writeJSON(w, rsp)
}

func (m *Monitor) listRuns(w http.ResponseWriter, _ *http.Request) {
	m.runsLock.Lock()
	rsp := make([]RunSnapshot, 0, len(m.runs))
	for _, r := range m.runs {
		rsp = append(rsp, r.Snapshot())
	}
	m.runsLock.Unlock()

	m.writeJSON(w, rsp)
}

func (m *Monitor) findRun(id string) *TrackedRun {
	m.runsLock.Lock()
	defer m.runsLock.Unlock()

	for _, r := range m.runs {
		if r.id == id {
			return r
		}
	}

	return nil
}

func (m *Monitor) runDetails(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	run := m.findRun(id)
	if run == nil {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	snapshot := run.Snapshot()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&snapshot)
	serializer.SetMaxDepth(2)

	err := serializer.Serialize(w)
	if err != nil {
		m.logger.WithError(err).Warn("failed to serialize run")
	}
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		m.fail(w, err)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		m.fail(w, err)
		return
	}

	memory, err := proc.MemoryInfo()
	if err != nil {
		m.fail(w, err)
		return
	}

	m.writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memory.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		m.fail(w, err)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		m.fail(w, err)
		return
	}

	m.writeJSON(w, prof)
}

func (m *Monitor) writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		m.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(data)
	if err != nil {
		m.logger.WithError(err).Debug("failed to write response")
	}
}

func (m *Monitor) fail(w http.ResponseWriter, err error) {
	m.logger.WithError(err).Warn("monitor request failed")
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
