//go:build integration

package integration

import (
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/focus_mon/internal/domain"
	"github.com/eliteGoblin/focusd/focus_mon/internal/match"
	"github.com/eliteGoblin/focusd/focus_mon/internal/monitor"
	"github.com/eliteGoblin/focusd/focus_mon/internal/usecase"
	"github.com/eliteGoblin/focusd/focus_mon/test/fixtures"
)

// recordingNotifier captures notifications raised by the scheduler.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(title, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func (n *recordingNotifier) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.messages) == 0 {
		return ""
	}
	return n.messages[len(n.messages)-1]
}

var _ = Describe("Focus Monitor", func() {
	var (
		provider  *fixtures.FakeAppProvider
		notifier  *recordingNotifier
		resultLog *monitor.ResultLog
		scheduler *monitor.Scheduler
	)

	newConfig := func(interval time.Duration) domain.MonitorConfig {
		return domain.MonitorConfig{
			TaskDescription: "write Go code",
			Interval:        interval,
			AllowedApps:     []string{"Visual Studio Code", "Terminal"},
			BlockedApps:     []string{"Steam"},
		}
	}

	BeforeEach(func() {
		provider = fixtures.NewFakeAppProvider()
		notifier = &recordingNotifier{}
		resultLog = monitor.NewResultLog(0)

		logger := zap.NewNop()
		evaluator := usecase.NewEvaluator(match.NewDefaultResolver(), logger)
		checker := usecase.NewChecker(provider, evaluator, logger)
		scheduler = monitor.NewScheduler(checker, provider, resultLog, logger).
			WithNotifier(notifier)
	})

	AfterEach(func() {
		scheduler.Stop()
	})

	Describe("periodic checking", func() {
		Context("when the active app is on the allow list", func() {
			It("records focused checks and never notifies", func() {
				provider.SetApps("Visual Studio Code")

				Expect(scheduler.Start(newConfig(20 * time.Millisecond))).To(Succeed())

				Eventually(resultLog.Len, "2s", "10ms").Should(BeNumerically(">=", 3))

				for _, record := range resultLog.Snapshot() {
					Expect(record.Focused).To(BeTrue())
					Expect(record.ActiveApp).To(Equal("Visual Studio Code"))
				}
				Expect(notifier.count()).To(BeZero())
			})
		})

		Context("when the active app is on the block list", func() {
			It("records distracted checks and raises notifications", func() {
				provider.SetApps("Steam")

				Expect(scheduler.Start(newConfig(20 * time.Millisecond))).To(Succeed())

				Eventually(func() int {
					return resultLog.Stats().DistractedChecks
				}, "2s", "10ms").Should(BeNumerically(">=", 1))

				record := resultLog.Snapshot()[0]
				Expect(record.Focused).To(BeFalse())
				Expect(record.Reason).To(ContainSubstring("Steam"))

				Eventually(notifier.count, "2s", "10ms").Should(BeNumerically(">=", 1))
				Expect(notifier.last()).To(ContainSubstring("Steam"))
			})
		})

		Context("when the foreground changes over time", func() {
			It("tracks the transitions in order", func() {
				provider.SetApps("Visual Studio Code", "Steam", "Terminal")

				Expect(scheduler.Start(newConfig(20 * time.Millisecond))).To(Succeed())

				Eventually(resultLog.Len, "2s", "10ms").Should(BeNumerically(">=", 3))

				records := resultLog.Snapshot()
				Expect(records[0].Focused).To(BeTrue())
				Expect(records[1].Focused).To(BeFalse())
				Expect(records[2].Focused).To(BeTrue())
			})
		})

		Context("when no window has focus", func() {
			It("counts the check as focused", func() {
				provider.SetApps("")

				Expect(scheduler.Start(newConfig(20 * time.Millisecond))).To(Succeed())

				Eventually(resultLog.Len, "2s", "10ms").Should(BeNumerically(">=", 1))

				record := resultLog.Snapshot()[0]
				Expect(record.Focused).To(BeTrue())
				Expect(record.ActiveApp).To(BeEmpty())
				Expect(record.Reason).To(ContainSubstring("no active application"))
			})
		})
	})

	Describe("failure containment", func() {
		Context("when the window query keeps failing", func() {
			It("fails open and keeps checking", func() {
				provider.SetApps("Terminal")
				provider.SetError(errors.New("window server gone"))

				Expect(scheduler.Start(newConfig(20 * time.Millisecond))).To(Succeed())

				Eventually(resultLog.Len, "2s", "10ms").Should(BeNumerically(">=", 2))

				stats := resultLog.Stats()
				Expect(stats.FocusedChecks).To(Equal(stats.TotalChecks))
				Expect(resultLog.Snapshot()[0].Reason).To(ContainSubstring("check failed"))

				state := scheduler.State()
				Expect(state).NotTo(Equal(domain.StateStopped))
			})
		})
	})

	Describe("lifecycle", func() {
		It("stops recording once stopped", func() {
			provider.SetApps("Terminal")

			Expect(scheduler.Start(newConfig(20 * time.Millisecond))).To(Succeed())
			Eventually(resultLog.Len, "2s", "10ms").Should(BeNumerically(">=", 2))

			scheduler.Stop()
			Expect(scheduler.State()).To(Equal(domain.StateStopped))

			settled := resultLog.Len()
			Consistently(resultLog.Len, "200ms", "20ms").Should(Equal(settled))
		})

		It("rejects a start without a task", func() {
			cfg := newConfig(20 * time.Millisecond)
			cfg.TaskDescription = ""

			Expect(scheduler.Start(cfg)).To(MatchError(monitor.ErrNoTaskDescription))
		})

		It("applies new config on the next cycle", func() {
			provider.SetApps("Slack")

			cfg := newConfig(20 * time.Millisecond)
			cfg.AllowedApps = []string{"Slack"}
			cfg.BlockedApps = nil
			Expect(scheduler.Start(cfg)).To(Succeed())

			Eventually(func() int {
				return resultLog.Stats().FocusedChecks
			}, "2s", "10ms").Should(BeNumerically(">=", 1))

			reconfigured := newConfig(20 * time.Millisecond)
			reconfigured.AllowedApps = nil
			reconfigured.BlockedApps = []string{"Slack"}
			Expect(scheduler.SetConfig(reconfigured)).To(Succeed())

			Eventually(func() int {
				return resultLog.Stats().DistractedChecks
			}, "2s", "10ms").Should(BeNumerically(">=", 1))
		})
	})
})
