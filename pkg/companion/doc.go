// Package companion wires schema loading, answer binding, validation, packet
// generation, and persistence into the two interactions a front end needs:
// Interact (re-render with validation) and Generate (build and save a packet).
package companion
