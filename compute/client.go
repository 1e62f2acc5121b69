package compute

import "fmt"

// Client is a per-caller session obtained from Service.NewClient. It holds
// no mutable state of its own beyond a closed flag — every mutation is
// delegated to the owning Service (§3 "Ownership").
//
// Grounded on sim/cluster/cluster.go's accessor/constructor style,
// generalized into the create/find/list facade §4.H and §6 require.
type Client struct {
	svc    *Service
	closed bool
}

func (c *Client) checkOpen() error {
	if c.closed || c.svc.closed {
		return ErrServiceClosed
	}
	return nil
}

// Close invalidates future calls on c. It does not destroy anything c
// created (§4.H).
func (c *Client) Close() {
	c.closed = true
}

// NewFlavor mints a new Flavor. cpuCount must be >= 1 (§3).
func (c *Client) NewFlavor(name string, cpuCount int, memorySize int64, labels map[string]string, meta map[string]any) (*Flavor, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	flavor, err := newFlavor(c.svc.gen.next(c.svc.sched.Now()), name, cpuCount, memorySize, labels, meta)
	if err != nil {
		return nil, err
	}
	c.svc.flavors.put(flavor.ID, flavor)
	return flavor, nil
}

// FindFlavor looks up a flavor by id.
func (c *Client) FindFlavor(id ID) (*Flavor, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	f, ok := c.svc.flavors.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: flavor %s", ErrNotFound, id)
	}
	return f, nil
}

// QueryFlavors lists every known flavor.
func (c *Client) QueryFlavors() ([]*Flavor, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return c.svc.flavors.list(), nil
}

// NewImage mints a new Image.
func (c *Client) NewImage(name string, labels map[string]string, meta map[string]any) (*Image, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	image := newImage(c.svc.gen.next(c.svc.sched.Now()), name, labels, meta)
	c.svc.images.put(image.ID, image)
	return image, nil
}

// FindImage looks up an image by id.
func (c *Client) FindImage(id ID) (*Image, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	img, ok := c.svc.images.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: image %s", ErrNotFound, id)
	}
	return img, nil
}

// QueryImages lists every known image.
func (c *Client) QueryImages() ([]*Image, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return c.svc.images.list(), nil
}

// NewServer mints a server from flavor and image and, if start is true,
// immediately enqueues a SchedulingRequest for it.
//
// Counter accounting (§9 open question, resolved): submittedVms increments
// on every call regardless of start; queuedVms increments only when
// start=true.
func (c *Client) NewServer(name string, image *Image, flavor *Flavor, labels map[string]string, meta map[string]any, start bool) (*Server, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if flavor == nil {
		return nil, fmt.Errorf("%w: newServer %q: nil flavor", ErrUsage, name)
	}
	if _, ok := c.svc.flavors.get(flavor.ID); !ok {
		return nil, fmt.Errorf("%w: newServer %q: unknown flavor %s", ErrUsage, name, flavor.ID)
	}
	if image != nil {
		if _, ok := c.svc.images.get(image.ID); !ok {
			return nil, fmt.Errorf("%w: newServer %q: unknown image %s", ErrUsage, name, image.ID)
		}
	}

	server := newServer(c.svc.gen.next(c.svc.sched.Now()), name, flavor, image, labels, meta)
	c.svc.servers.put(server.ID, server)
	c.svc.counters.submitted++

	if start {
		c.svc.counters.queued++
		c.svc.schedule(server)
	}
	c.svc.emitMetrics()
	return server, nil
}

// FindServer looks up a server by id. Terminal servers remain resolvable
// until explicitly deleted (§9 "registry retention after delete").
func (c *Client) FindServer(id ID) (*Server, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	s, ok := c.svc.servers.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: server %s", ErrNotFound, id)
	}
	return s, nil
}

// QueryServers lists every known server, including terminal ones that
// have not been explicitly deleted.
func (c *Client) QueryServers() ([]*Server, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return c.svc.servers.list(), nil
}

// DeleteServer removes server from the registry and, if it was still
// queued or running, cancels/reconciles it first. Deleting a server does
// not adjust finishedVms (§9 "counter monotonicity on deletion") — that
// counter is a cumulative lifetime total, not a current-occupancy gauge.
// Only the live gauges (queuedVms/runningVms) move, via a dedicated path
// distinct from completeTerminal, which is reserved for true host-reported
// completions.
func (c *Client) DeleteServer(server *Server) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if !server.State.IsTerminal() {
		if req, ok := c.svc.serverRequests[server.ID]; ok && !req.Cancelled() {
			req.Cancel()
			delete(c.svc.serverRequests, server.ID)
			c.svc.counters.queued--
		} else if server.State == StateRunning {
			if view, ok := c.svc.hostToView[serverHostID(server)]; ok {
				view.Release(server)
			}
			delete(c.svc.activeServers, server.ID)
			c.svc.counters.running--
		}
		server.State = StateDeleted
		c.svc.emitMetrics()
	}
	c.svc.servers.delete(server.ID)
	return nil
}

func serverHostID(server *Server) ID {
	if server.Host == nil {
		var zero ID
		return zero
	}
	return server.Host.ID()
}
