package services

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var (
	analysesCompletedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "idea_analyses_completed_total",
		Help: "Total number of idea analyses that reached the completed state.",
	})
	analysesFailedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "idea_analyses_failed_total",
		Help: "Total number of idea analyses that ended in the failed state.",
	})
)

func init() {
	prometheus.MustRegister(analysesCompletedCounter, analysesFailedCounter)
}

// AnalysisQueue entkoppelt die Einreichung vom Analyse-Lauf: ein gepufferter
// Kanal plus fester Worker-Pool statt eines unbeobachteten go func. Enqueue
// blockiert nie; bei voller Queue bleibt die Zeile in "analyzing" und der
// Reaper sammelt sie später ein.
type AnalysisQueue struct {
	svc    *AnalyzeService
	logger *zap.Logger
	jobs   chan uint
	wg     sync.WaitGroup
}

// NewAnalysisQueue erstellt eine Queue mit der angegebenen Puffergröße.
func NewAnalysisQueue(svc *AnalyzeService, logger *zap.Logger, size int) *AnalysisQueue {
	return &AnalysisQueue{
		svc:    svc,
		logger: logger,
		jobs:   make(chan uint, size),
	}
}

// Start startet die Worker. Jede Analyse läuft strikt sequentiell in genau
// einem Worker; verschiedene Ideen laufen parallel.
func (q *AnalysisQueue) Start(workers int) {
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.logger.Info("Analyse-Worker gestartet", zap.Int("workers", workers), zap.Int("queue_size", cap(q.jobs)))
}

func (q *AnalysisQueue) worker() {
	defer q.wg.Done()
	for id := range q.jobs {
		if err := q.svc.Run(context.Background(), id); err != nil {
			analysesFailedCounter.Inc()
			q.logger.Error("Analyse-Lauf fehlgeschlagen", zap.Uint("idea_id", id), zap.Error(err))
			continue
		}
		analysesCompletedCounter.Inc()
	}
}

// Enqueue reiht eine Idee zur Analyse ein. Gibt false zurück, wenn die Queue
// voll ist; der Aufrufer loggt das nur, die Einreichung selbst schlägt nicht fehl.
func (q *AnalysisQueue) Enqueue(id uint) bool {
	select {
	case q.jobs <- id:
		return true
	default:
		return false
	}
}

// Stop schließt die Queue und wartet, bis alle Worker fertig sind.
func (q *AnalysisQueue) Stop() {
	close(q.jobs)
	q.wg.Wait()
}
