/*
go-tripsafe assesses indoor floor level trip hazards from a single still
image.  Raw object detector output is filtered by confidence, reduced with
Non-Maximum Suppression, classified into hazards, safe storage zones and
neutral objects, and turned into a scene risk level, placement suggestions
and a plain text report.

The object detector is a pluggable Detector.  Darknet provides one backed by
the OpenCV DNN module running YOLOv3-tiny, and Pool shares several of them
between concurrent requests.

See the tripsafe command in cmd/tripsafe for scanning images from the
command line or serving assessments over HTTP.
*/
package tripsafe
