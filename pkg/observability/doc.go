/*
Package observability provides Prometheus instrumentation for the Framelight player.

It counts navigations, overlay traffic, triggers, and fired delay timers, and
tracks the number of live playback sessions. Collectors live on a private
registry exposed through Handler.
*/
package observability
