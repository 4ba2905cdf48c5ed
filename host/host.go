package host

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/reglet-dev/reglet-modhost/application/config"
	"github.com/reglet-dev/reglet-modhost/catalog"
	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/errors"
	"github.com/reglet-dev/reglet-modhost/domain/policy"
	"github.com/reglet-dev/reglet-modhost/domain/ports"
	"github.com/reglet-dev/reglet-modhost/host/registry"
)

// Ensure Host satisfies the view handed to module hooks.
var _ entities.Instance = (*Host)(nil)

// Host owns the loaded modules of one host instance.
type Host struct {
	config  hostConfig
	id      string
	lib     ports.Library
	gate    *policy.Compatibility
	modules *registry.Registry
	active  string // module whose pre-init hook is running
	pending string // explicit library list not yet consumed
}

// New creates a Host opening libraries through lib.
func New(lib ports.Library, opts ...Option) *Host {
	cfg := defaultHostConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.generators == nil {
		cfg.generators = catalog.NewGenerators()
	}
	if cfg.operations == nil {
		cfg.operations = catalog.NewOperations()
	}
	if cfg.settings.Dir == "" {
		cfg.settings.Dir = config.DefaultDir
		cfg.settings.DirFromDefault = true
	}
	if cfg.settings.Suffix == "" {
		cfg.settings.Suffix = lib.Suffix()
	}

	h := &Host{
		config:  cfg,
		id:      uuid.NewString(),
		lib:     lib,
		modules: registry.New(registry.WithCapacity(cfg.settings.Capacity)),
		pending: cfg.settings.Libraries,
	}
	if cfg.terminate == nil {
		h.config.terminate = h.exitTerminator
	}
	h.gate = policy.NewCompatibility(cfg.settings.Version(),
		policy.WithRejectionHandler(&logRejections{logger: cfg.logger}))

	cfg.logger.Debug("module host created",
		"id", h.id,
		"dir", cfg.settings.Dir,
		"suffix", cfg.settings.Suffix,
		"width", cfg.settings.Width,
		"api", fmt.Sprintf("%d.%d", cfg.settings.APIMajor, cfg.settings.APIMinor))
	return h
}

// ID returns the instance identifier.
func (h *Host) ID() string { return h.id }

// Logger implements entities.Instance.
func (h *Host) Logger() *slog.Logger { return h.config.logger }

func (h *Host) logger() *slog.Logger { return h.config.logger }

// RegisterGenerator implements entities.Instance.
func (h *Host) RegisterGenerator(name string, routine entities.GeneratorFunc) error {
	return h.config.generators.Register(name, routine)
}

// AppendOperations implements entities.Instance.
func (h *Host) AppendOperations(ops []entities.OperationEntry) error {
	return h.config.operations.Append(ops)
}

// Abort implements entities.Instance. It unwinds the running hook; the
// abort is caught where the host invoked the hook under protection.
func (h *Host) Abort(code entities.AbortCode) {
	panic(&errors.AbortError{Module: h.active, Code: code})
}

// Version returns the ABI offered to modules.
func (h *Host) Version() entities.Info { return h.gate.Host() }

// Directory returns the module directory and whether it is the default.
func (h *Host) Directory() (dir string, fromDefault bool) {
	return h.config.settings.Dir, h.config.settings.DirFromDefault
}

// Suffix returns the library suffix matched by directory scans.
func (h *Host) Suffix() string { return h.config.settings.Suffix }

// Modules returns the loaded modules, most recently loaded first.
func (h *Host) Modules() []*entities.ModuleRecord { return h.modules.Records() }

// Len returns the number of loaded modules.
func (h *Host) Len() int { return h.modules.Len() }

// Generators returns the generator registry modules register with.
func (h *Host) Generators() ports.GeneratorRegistry { return h.config.generators }

// Operations returns the operation table modules append to.
func (h *Host) Operations() ports.OperationTable { return h.config.operations }

var unsetBanner = []string{
	"################################################################",
	"#        WARNING: %-43s #",
	"# The module directory was not configured; modules are loaded #",
	"# from the current directory. Operations, generators and      #",
	"# plugins installed elsewhere will be missing.                #",
	"################################################################",
}

// WarnDirectoryUnset prints a warning banner when the variable for the
// host's width was not set. It reports whether the banner was printed.
func (h *Host) WarnDirectoryUnset() bool {
	if !h.config.settings.DirFromDefault {
		return false
	}
	variable := config.DirectoryVariable(h.config.settings.Width) + " IS NOT SET !"
	for i, line := range unsetBanner {
		if i == 1 {
			line = fmt.Sprintf(line, variable)
		}
		h.logger().Warn(line)
	}
	return true
}

// logRejections reports compatibility rejections on the diagnostic channel.
type logRejections struct {
	logger *slog.Logger
}

func (l *logRejections) OnReject(name, reason string, _ entities.Info) {
	l.logger.Warn(policy.RejectionMessage(name, reason))
}
