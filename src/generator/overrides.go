package generator

import (
	"github.com/pkg/errors"
)

// WeightOverrides 按图层/属性覆盖权重: layer -> trait -> weight
type WeightOverrides map[string]map[string]float64

// Validate 校验图层和属性存在且权重在 [0, 100]
func (w WeightOverrides) Validate(c *Catalog) error {
	for layer, traits := range w {
		l, ok := c.Layer(layer)
		if !ok {
			return errors.Errorf("weight override for unknown layer %q", layer)
		}
		for trait, weight := range traits {
			if _, ok := l.Trait(trait); !ok {
				return errors.Errorf("weight override for unknown trait %q in layer %q", trait, layer)
			}
			if weight < 0 || weight > MaxTraitWeight {
				return errors.Errorf("weight for %s:%s must be within [0, %d], got %v", layer, trait, MaxTraitWeight, weight)
			}
		}
	}
	return nil
}

// WithOverrides 返回应用了权重覆盖的目录副本, 原目录不变
func (c *Catalog) WithOverrides(w WeightOverrides) (*Catalog, error) {
	if err := w.Validate(c); err != nil {
		return nil, err
	}

	out := &Catalog{Width: c.Width, Height: c.Height, Assets: c.Assets}
	out.Layers = make([]Layer, len(c.Layers))
	for i, l := range c.Layers {
		traits := make([]Trait, len(l.Traits))
		copy(traits, l.Traits)
		for j := range traits {
			if weight, ok := w[l.Name][traits[j].Name]; ok {
				traits[j].Weight = weight
			}
		}
		out.Layers[i] = Layer{Name: l.Name, Order: l.Order, Traits: traits}
	}
	return out, nil
}
