package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	v1 "cloudrent/api/v1"
	"cloudrent/internal/cloud"
	"cloudrent/internal/model"
	"cloudrent/internal/repository"
	"cloudrent/internal/saga"
	"cloudrent/pkg/sshkey"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const provisionSaga = "provision"

// Provisioning steps, in execution order.
const (
	StepCheckName       = "check-name"
	StepEnsureNetwork   = "ensure-network"
	StepEnsureFlavor    = "ensure-flavor"
	StepGenerateKeyPair = "generate-keypair"
	StepCreateInstance  = "create-instance"
	StepAllocateAddress = "allocate-address"
	StepCommit          = "commit"
)

type NetworkSpec struct {
	Name string
	CIDR string // only needed when the network does not exist yet
}

type FlavorSpec struct {
	Name string
	VCPU int
	RAM  int // MiB
	Disk int // GiB
}

type ProvisionRequest struct {
	Kind      string
	UserName  string
	Name      string
	Image     string
	Node      string
	Network   NetworkSpec // Name defaults per kind
	Flavor    FlavorSpec  // servers only
	StartDate time.Time
	EndDate   time.Time
	Password  string // containers only
	Env       map[string]string
	Command   []string
}

// RentalService leases servers and containers. kind arguments may be empty to
// match either kind; a rental of the other kind yields v1.ErrKindMismatch.
type RentalService interface {
	Provision(ctx context.Context, req *ProvisionRequest) (*model.Rental, error)
	Reclaim(ctx context.Context, kind, name string) error
	// ReturnContainer reclaims a container after checking its password.
	ReturnContainer(ctx context.Context, name, password string) error
	Extend(ctx context.Context, kind, name string, end time.Time) (*model.Rental, error)
	Get(ctx context.Context, kind, name string) (*model.Rental, error)
	List(ctx context.Context, kind, userName string) ([]*model.Rental, error)
}

func NewRentalService(
	service *Service,
	conf *viper.Viper,
	rentalRepo repository.RentalRepository,
	inconsistencyRepo repository.InconsistencyRepository,
	networks NetworkManager,
	flavors FlavorManager,
	provider cloud.Provider,
	decommissioner *Decommissioner,
) RentalService {
	serverNetwork := conf.GetString("rental.server_network")
	if serverNetwork == "" {
		serverNetwork = "internal"
	}
	containerNetwork := conf.GetString("rental.container_network")
	if containerNetwork == "" {
		containerNetwork = conf.GetString("cloud.external_network")
	}
	return &rentalService{
		Service:           service,
		rentalRepo:        rentalRepo,
		inconsistencyRepo: inconsistencyRepo,
		networks:          networks,
		flavors:           flavors,
		provider:          provider,
		decommissioner:    decommissioner,
		defaultNetworks: map[string]string{
			model.RentalKindServer:    serverNetwork,
			model.RentalKindContainer: containerNetwork,
		},
	}
}

type rentalService struct {
	*Service
	rentalRepo        repository.RentalRepository
	inconsistencyRepo repository.InconsistencyRepository
	networks          NetworkManager
	flavors           FlavorManager
	provider          cloud.Provider
	decommissioner    *Decommissioner
	defaultNetworks   map[string]string
}

func (s *rentalService) Provision(ctx context.Context, req *ProvisionRequest) (*model.Rental, error) {
	if err := s.normalize(req); err != nil {
		s.metrics.ProvisionTotal.WithLabelValues(req.Kind, "rejected").Inc()
		return nil, err
	}
	sagaID, err := s.sid.GenString()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", v1.ErrInternalServerError, err)
	}
	ctx = s.logger.WithValue(ctx,
		zap.String("saga_id", sagaID),
		zap.String("rental", req.Name),
		zap.String("kind", req.Kind),
		zap.String("node", req.Node),
	)
	logger := s.logger.WithContext(ctx)

	p := &provisioning{rentalService: s, req: req, sagaID: sagaID}
	sg := saga.New(provisionSaga, sagaID, p.steps(), s.sagaOptions()...)

	ran := false
	err = s.tm.Transaction(ctx, func(ctx context.Context) error {
		if err := sg.Run(ctx); err != nil {
			return err
		}
		ran = true
		return nil
	})
	if err != nil && ran {
		// every step succeeded but the transaction did not commit
		logger.Error("rental commit failed, compensating", zap.Error(err))
		err = sg.Compensate(repository.WithoutTx(ctx), fmt.Errorf("%s: %w", StepCommit, err))
	}
	if err != nil {
		err = s.classify(ctx, req, sagaID, err)
		s.metrics.ProvisionTotal.WithLabelValues(req.Kind, outcomeOf(err)).Inc()
		return nil, err
	}

	s.metrics.ProvisionTotal.WithLabelValues(req.Kind, "ok").Inc()
	logger.Info("rental provisioned", zap.String("address", p.rental.Address))
	return p.rental, nil
}

func (s *rentalService) normalize(req *ProvisionRequest) error {
	var missing []string
	for _, f := range [][2]string{
		{"name", req.Name},
		{"user", req.UserName},
		{"node", req.Node},
		{"image", req.Image},
	} {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, f[0])
		}
	}
	switch req.Kind {
	case model.RentalKindServer:
		if req.Flavor.Name == "" {
			missing = append(missing, "flavor")
		}
	case model.RentalKindContainer:
		if req.Password == "" {
			missing = append(missing, "password")
		}
	default:
		return fmt.Errorf("%w: unknown rental kind %q", v1.ErrBadRequest, req.Kind)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", v1.ErrBadRequest, strings.Join(missing, ", "))
	}

	req.StartDate = model.Day(req.StartDate)
	req.EndDate = model.Day(req.EndDate)
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: end date %s is before start date %s", v1.ErrBadRequest,
			req.EndDate.Format(v1.DateLayout), req.StartDate.Format(v1.DateLayout))
	}
	if req.Network.Name == "" {
		req.Network.Name = s.defaultNetworks[req.Kind]
	}
	if req.Network.Name == "" {
		return fmt.Errorf("%w: no network given and no default for %s rentals", v1.ErrBadRequest, req.Kind)
	}
	return nil
}

// classify maps a failed provisioning onto the v1 taxonomy. A failed compensation
// is persisted for operators before anything else.
func (s *rentalService) classify(ctx context.Context, req *ProvisionRequest, sagaID string, err error) error {
	logger := s.logger.WithContext(ctx)
	if errors.Is(err, saga.ErrCompensationFailed) {
		s.recordInconsistency(ctx, req, sagaID, err)
		return fmt.Errorf("%w: %w", v1.ErrInconsistentState, err)
	}
	switch {
	case errors.Is(err, v1.ErrDuplicateName), errors.Is(err, v1.ErrBadRequest):
		logger.Info("rental rejected", zap.Error(err))
		return err
	case errors.Is(err, cloud.ErrProvider), errors.Is(err, context.DeadlineExceeded):
		logger.Warn("rental provisioning failed at the provider", zap.Error(err))
		return fmt.Errorf("%w: %w", v1.ErrProviderFailure, err)
	default:
		logger.Error("rental provisioning failed", zap.Error(err))
		return fmt.Errorf("%w: %w", v1.ErrInternalServerError, err)
	}
}

func (s *rentalService) recordInconsistency(ctx context.Context, req *ProvisionRequest, sagaID string, err error) {
	inc := &model.Inconsistency{
		SagaID:     sagaID,
		Saga:       provisionSaga,
		RentalName: req.Name,
		Kind:       req.Kind,
		NodeName:   req.Node,
		FailedStep: StepCommit,
		Cause:      err.Error(),
	}
	var compensated []string
	var se *saga.Error
	if errors.As(err, &se) {
		if se.Step != "" {
			inc.FailedStep = se.Step
		}
		inc.Cause = se.Cause.Error()
		compensated = se.Compensated
	}
	inc.Compensated = strings.Join(compensated, ",")
	failures := saga.Failures(err)
	lines := make([]string, 0, len(failures))
	for _, f := range failures {
		lines = append(lines, f.String())
	}
	inc.Failures = strings.Join(lines, "\n")

	logger := s.logger.WithContext(ctx)
	logger.Error("provisioning left inconsistent state",
		zap.String("failed_step", inc.FailedStep),
		zap.String("cause", inc.Cause),
		zap.Strings("compensated", compensated),
		zap.Strings("compensation_failures", lines),
	)
	if err := s.inconsistencyRepo.Create(repository.WithoutTx(ctx), inc); err != nil {
		logger.Error("failed to persist inconsistency", zap.Error(err))
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, v1.ErrInconsistentState):
		return "inconsistent"
	case errors.Is(err, v1.ErrDuplicateName):
		return "duplicate"
	case errors.Is(err, v1.ErrBadRequest):
		return "rejected"
	case errors.Is(err, v1.ErrProviderFailure):
		return "provider_failure"
	default:
		return "error"
	}
}

func (s *rentalService) lookup(ctx context.Context, kind, name string) (*model.Rental, error) {
	rental, err := s.rentalRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", v1.ErrInternalServerError, err)
	}
	if rental == nil {
		return nil, fmt.Errorf("%w: rental %s", v1.ErrNotFound, name)
	}
	if kind != "" && rental.Kind != kind {
		return nil, fmt.Errorf("%w: %s is a %s", v1.ErrKindMismatch, name, rental.Kind)
	}
	return rental, nil
}

func (s *rentalService) Reclaim(ctx context.Context, kind, name string) error {
	rental, err := s.lookup(ctx, kind, name)
	if err != nil {
		return err
	}
	return s.decommission(ctx, rental)
}

func (s *rentalService) ReturnContainer(ctx context.Context, name, password string) error {
	rental, err := s.lookup(ctx, model.RentalKindContainer, name)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rental.PasswordHash), []byte(password)); err != nil {
		return fmt.Errorf("%w: container %s", v1.ErrPasswordMismatch, name)
	}
	return s.decommission(ctx, rental)
}

func (s *rentalService) decommission(ctx context.Context, rental *model.Rental) error {
	err := s.decommissioner.Decommission(ctx, rental)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, v1.ErrNotFound):
		return fmt.Errorf("%w: rental %s", v1.ErrNotFound, rental.Name)
	case errors.Is(err, cloud.ErrProvider), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", v1.ErrProviderFailure, err)
	default:
		return fmt.Errorf("%w: %w", v1.ErrInternalServerError, err)
	}
}

func (s *rentalService) Extend(ctx context.Context, kind, name string, end time.Time) (*model.Rental, error) {
	rental, err := s.lookup(ctx, kind, name)
	if err != nil {
		return nil, err
	}
	end = model.Day(end)
	if end.Before(model.Day(rental.StartDate)) {
		return nil, fmt.Errorf("%w: end date %s is before start date %s", v1.ErrBadRequest,
			end.Format(v1.DateLayout), rental.StartDate.Format(v1.DateLayout))
	}
	ok, err := s.rentalRepo.UpdateEndDate(ctx, name, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", v1.ErrInternalServerError, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: rental %s", v1.ErrNotFound, name)
	}
	rental.EndDate = end
	s.logger.WithContext(ctx).Info("rental extended",
		zap.String("rental", name), zap.String("end_date", end.Format(v1.DateLayout)))
	return rental, nil
}

func (s *rentalService) Get(ctx context.Context, kind, name string) (*model.Rental, error) {
	return s.lookup(ctx, kind, name)
}

func (s *rentalService) List(ctx context.Context, kind, userName string) ([]*model.Rental, error) {
	rentals, err := s.rentalRepo.List(ctx, kind, userName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", v1.ErrInternalServerError, err)
	}
	return rentals, nil
}

// provisioning is the state one Provision call threads through its steps.
type provisioning struct {
	*rentalService
	req    *ProvisionRequest
	sagaID string

	network        *model.Network
	networkCreated bool
	flavor         *model.Flavor
	flavorCreated  bool
	keyPair        *sshkey.KeyPair
	instance       *cloud.Instance
	address        string
	rental         *model.Rental
}

func (p *provisioning) steps() []saga.Step {
	steps := []saga.Step{
		{Name: StepCheckName, Action: p.checkName},
		{Name: StepEnsureNetwork, Action: p.ensureNetwork, Compensate: p.abandonNetwork},
	}
	if p.req.Kind == model.RentalKindServer {
		steps = append(steps,
			saga.Step{Name: StepEnsureFlavor, Action: p.ensureFlavor, Compensate: p.abandonFlavor},
			saga.Step{Name: StepGenerateKeyPair, Action: p.generateKeyPair},
		)
	}
	return append(steps,
		saga.Step{Name: StepCreateInstance, Action: p.createInstance, Compensate: p.deleteInstance},
		saga.Step{Name: StepAllocateAddress, Action: p.allocateAddress, Compensate: p.releaseAddress},
		saga.Step{Name: StepCommit, Action: p.commit},
	)
}

func (p *provisioning) checkName(ctx context.Context) error {
	existing, err := p.rentalRepo.GetByName(ctx, p.req.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", v1.ErrDuplicateName, p.req.Name)
	}
	return nil
}

func (p *provisioning) ensureNetwork(ctx context.Context) error {
	rec, created, err := p.networks.Ensure(ctx, p.req.Node, &model.Network{
		Name: p.req.Network.Name,
		CIDR: p.req.Network.CIDR,
	})
	if err != nil {
		return err
	}
	p.network, p.networkCreated = rec, created
	return nil
}

// abandonNetwork only undoes what this provisioning materialized.
func (p *provisioning) abandonNetwork(ctx context.Context) error {
	if !p.networkCreated {
		return nil
	}
	return p.networks.Abandon(ctx, p.req.Node, p.network)
}

func (p *provisioning) ensureFlavor(ctx context.Context) error {
	rec, created, err := p.flavors.Ensure(ctx, p.req.Node, &model.Flavor{
		Name: p.req.Flavor.Name,
		VCPU: p.req.Flavor.VCPU,
		RAM:  p.req.Flavor.RAM,
		Disk: p.req.Flavor.Disk,
	})
	if err != nil {
		return err
	}
	p.flavor, p.flavorCreated = rec, created
	return nil
}

func (p *provisioning) abandonFlavor(ctx context.Context) error {
	if !p.flavorCreated {
		return nil
	}
	return p.flavors.Abandon(ctx, p.req.Node, p.flavor)
}

// generateKeyPair mints the login key of a server. It leaves nothing behind to
// compensate: the private half is handed to the tenant once and never stored.
func (p *provisioning) generateKeyPair(_ context.Context) error {
	kp, err := sshkey.Generate(p.req.Name)
	if err != nil {
		return err
	}
	p.keyPair = kp
	return nil
}

func (p *provisioning) createInstance(ctx context.Context) error {
	req := cloud.InstanceRequest{
		Name:    p.req.Name,
		Kind:    p.req.Kind,
		Image:   p.req.Image,
		Network: p.req.Network.Name,
		Env:     p.req.Env,
		Command: p.req.Command,
		Tags: map[string]string{
			"rental": p.req.Name,
			"user":   p.req.UserName,
			"saga":   p.sagaID,
		},
	}
	if p.flavor != nil {
		req.Profile = &cloud.ProfileSpec{Name: p.flavor.Name, VCPU: p.flavor.VCPU, RAM: p.flavor.RAM, Disk: p.flavor.Disk}
	}
	if p.keyPair != nil {
		req.AuthorizedKeys = []string{p.keyPair.AuthorizedKey}
	}
	inst, err := p.provider.CreateInstance(ctx, p.req.Node, req)
	if err != nil {
		return err
	}
	p.instance = inst
	return nil
}

func (p *provisioning) deleteInstance(ctx context.Context) error {
	return cloud.IgnoreNotFound(p.provider.DeleteInstance(ctx, p.req.Node, p.instance.ID))
}

func (p *provisioning) allocateAddress(ctx context.Context) error {
	addr, err := p.provider.AllocateAddress(ctx, p.req.Node, p.instance)
	if err != nil {
		return err
	}
	p.address = addr
	return nil
}

func (p *provisioning) releaseAddress(ctx context.Context) error {
	return cloud.IgnoreNotFound(p.provider.ReleaseAddress(ctx, p.req.Node, p.address))
}

func (p *provisioning) commit(ctx context.Context) error {
	rental := &model.Rental{
		Kind:        p.req.Kind,
		UserName:    p.req.UserName,
		Name:        p.req.Name,
		StartDate:   p.req.StartDate,
		EndDate:     p.req.EndDate,
		NodeName:    p.req.Node,
		NetworkName: p.req.Network.Name,
		ImageName:   p.req.Image,
		InstanceID:  p.instance.ID,
		Address:     p.address,
		SagaID:      p.sagaID,
	}
	if p.req.Kind == model.RentalKindServer {
		rental.FlavorName = p.req.Flavor.Name
	}
	if p.keyPair != nil {
		rental.KeyFingerprint = p.keyPair.Fingerprint
	}
	if p.req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(p.req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		rental.PasswordHash = string(hash)
	}
	inserted, err := p.rentalRepo.Create(ctx, rental)
	if err != nil {
		return err
	}
	if !inserted {
		return fmt.Errorf("%w: %s", v1.ErrDuplicateName, p.req.Name)
	}
	if p.keyPair != nil {
		rental.PrivateKey = string(p.keyPair.PrivateKey)
	}
	p.rental = rental
	return nil
}
