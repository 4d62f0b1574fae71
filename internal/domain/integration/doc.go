// Package integration holds the domain model of the sales-channel layer:
// the channels themselves, the mirror rows that record how local catalog
// entities map onto each channel, the remote log stream that tracks every
// outbound API action, and the durable task queue feeding the sync workers.
//
// Concrete channel adapters (Shopify, Magento, eBay, Shein, WooCommerce)
// live in infrastructure; this package only defines the ports they satisfy.
package integration
