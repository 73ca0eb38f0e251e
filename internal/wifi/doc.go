// Package wifi manages the node's wireless link.
//
// The unit owns the full association procedure: it forces the link layer
// into a clean state, associates with the configured network, and polls the
// driver until the link reports an address or a conclusive failure. The
// whole procedure is bounded - a fixed number of attempts with a fixed
// backoff - and its outcome is reported to the orchestrator as exactly one
// message (LinkInitDone or TaskError). Retry policy lives entirely here;
// the orchestrator never retries.
//
// The physical link is abstracted behind Driver so tests can script status
// sequences; NMCLIDriver drives a real interface through NetworkManager.
package wifi
