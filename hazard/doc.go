// Package hazard classifies detections into trip hazards, safe storage zones
// and neutral objects, and derives the scene risk level from them.
package hazard
