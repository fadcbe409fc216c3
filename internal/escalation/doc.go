// Package escalation maps an uptime sample onto an escalation condition.
//
// Classification is a pure function of the sample, the configured thresholds
// and whether this is the first run on the machine. Nothing here touches the
// registry, the notifier or the clock; those belong to the controller.
package escalation
