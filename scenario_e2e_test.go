package test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/redhat/upgrade-checks/test/checks"
	"github.com/redhat/upgrade-checks/test/framework"
	"github.com/redhat/upgrade-checks/test/framework/version"
)

// memoryEnv is an in-memory Environment that accepts every batch and
// walks a fixed upgrade path, recording what ran on which version.
type memoryEnv struct {
	mu      sync.Mutex
	path    []version.Version
	index   int
	applied map[string]version.Version
}

type memoryHandle struct{ label string }

func newMemoryEnv(path ...string) *memoryEnv {
	versions := make([]version.Version, len(path))
	for i, raw := range path {
		versions[i] = version.MustParse(raw)
	}
	return &memoryEnv{path: versions, applied: make(map[string]version.Version)}
}

func (m *memoryEnv) Execute(ctx context.Context, batch *framework.ActionBatch) (framework.PendingHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied[batch.Label] = m.path[m.index]
	return &memoryHandle{label: batch.Label}, nil
}

func (m *memoryEnv) Join(ctx context.Context, handle framework.PendingHandle) error {
	return nil
}

func (m *memoryEnv) AdvanceVersion(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index++
	return nil
}

func (m *memoryEnv) Version(ctx context.Context) (version.Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path[m.index], nil
}

func (m *memoryEnv) SQL(ctx context.Context, statement string, params framework.ConnectionParams) ([][]string, error) {
	return nil, nil
}

func (m *memoryEnv) StartService(ctx context.Context, name string) error { return nil }
func (m *memoryEnv) KillService(ctx context.Context, name string) error  { return nil }

// ranOn returns the version a batch executed on.
func (m *memoryEnv) ranOn(label string) (version.Version, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.applied[label]
	return v, ok
}

var _ = Describe("Upgrade scenario", func() {
	var (
		env    *memoryEnv
		logger *slog.Logger
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		env = newMemoryEnv("0.80.0", "0.81.0", "0.82.0")
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	Context("running the full check registry", func() {
		It("drives every applicable check across the upgrade path", func() {
			base := version.MustParse("0.80.0")
			all := checks.All(base)

			scenario, err := framework.NewScenario("e2e", base, 3, env, all,
				framework.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())

			Expect(scenario.Run(ctx)).To(Succeed())

			// Setup runs on the base version, validation on the last one.
			v, ok := env.ranOn("create-table-init")
			Expect(ok).To(BeTrue())
			Expect(v.String()).To(Equal("0.80.0"))

			v, ok = env.ranOn("create-table-validate")
			Expect(ok).To(BeTrue())
			Expect(v.String()).To(Equal("0.82.0"))

			// Each manipulate batch runs after its own upgrade boundary.
			v, _ = env.ranOn("create-replica-manipulate-0")
			Expect(v.String()).To(Equal("0.81.0"))
			v, _ = env.ranOn("create-replica-manipulate-1")
			Expect(v.String()).To(Equal("0.82.0"))
		})

		It("skips checks that decline the base version", func() {
			base := version.MustParse("0.50.0")
			scenario, err := framework.NewScenario("e2e", base, 3, env, checks.All(base),
				framework.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())

			Expect(scenario.Run(ctx)).To(Succeed())

			_, ok := env.ranOn("unmanaged-replica-init")
			Expect(ok).To(BeFalse(), "version-gated check must not run on an old base")
		})

		It("applies requested system settings before any initialize", func() {
			base := version.MustParse("0.80.0")
			scenario, err := framework.NewScenario("e2e", base, 3, env, checks.All(base),
				framework.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())

			Expect(scenario.Run(ctx)).To(Succeed())

			v, ok := env.ranOn("system-settings")
			Expect(ok).To(BeTrue())
			Expect(v.String()).To(Equal("0.80.0"))
		})
	})

	Context("in validate-only mode", func() {
		It("re-validates idempotent checks without upgrading", func() {
			base := version.MustParse("0.80.0")
			scenario, err := framework.NewScenario("e2e", base, 3, env, checks.All(base),
				framework.WithLogger(logger), framework.ValidateOnly())
			Expect(err).NotTo(HaveOccurred())

			Expect(scenario.Run(ctx)).To(Succeed())

			// Everything stays on the first version of the path.
			v, ok := env.ranOn("materialized-view-validate")
			Expect(ok).To(BeTrue())
			Expect(v.String()).To(Equal("0.80.0"))

			// Checks that cannot re-apply their setup are skipped.
			_, ok = env.ranOn("rename-table-init")
			Expect(ok).To(BeFalse())
		})
	})

	Context("check payloads", func() {
		It("labels every batch with its check name", func() {
			for _, c := range checks.All(version.MustParse("0.80.0")) {
				for _, batch := range append(c.Manipulate(), c.Initialize(), c.Validate()) {
					if batch.Empty() {
						continue
					}
					Expect(strings.HasPrefix(batch.Label, c.Name())).To(BeTrue(),
						"batch %q of check %q", batch.Label, c.Name())
				}
			}
		})
	})
})
