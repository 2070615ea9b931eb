// Package labels turns a geo-positioned point dataset into camera-facing map
// label nodes for a 3D scene.
//
// A dataset is a geometry source (usually an ESRI shapefile) and a companion
// dBASE attribute table. The two are correlated purely by position: vertex i
// of the geometry and row i of the table describe the same feature, so both
// must enumerate features in the same order. When the counts differ, only the
// first min(len(positions), len(records)) pairs are considered. When the
// attribute table cannot be loaded, no labels are produced at all.
//
// Each accepted pair is lifted above the ground, classified to an icon key,
// resolved against a shared ResourceCache, and emitted as a Node in the output
// Group. Rendering, including the per-frame camera-facing orientation that
// Node.Billboard asks for, is left to the host scene graph.
//
// Example:
//
//	p := labels.NewPipeline(labels.DefaultOptions())
//	group := p.RunDir(ctx, "data/krakow")
//	fmt.Printf("%d labels, %d textures\n", group.Len(), group.Stats.Textures)
//
// A Pipeline and its ResourceCache are not safe for concurrent use.
package labels
