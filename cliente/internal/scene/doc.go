// Package scene transforma descrições de estruturas em objetos desenháveis e
// gerencia o ciclo de vida da cena ativa de cada viewport.
//
// Os recursos compartilhados (Shape por tipo, Appearance por cor) pertencem ao
// ResourceCache e vivem até ResourceCache.Release. As instâncias, grupos e luzes
// pertencem ao Viewport que os adotou e são descartados no próximo Rebuild.
//
// Tudo aqui roda na thread principal; nenhum tipo do pacote é seguro para uso
// concorrente.
package scene
