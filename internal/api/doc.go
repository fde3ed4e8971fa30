// Package api handles incoming HTTP requests, request validation and
// response formatting. It acts as an adapter between HTTP clients and the
// task runner, translating HTTP concerns into offloaded store commands.
package api
